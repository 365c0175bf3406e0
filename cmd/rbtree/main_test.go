package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/benz9527/rbmap/lib/tree"
	"github.com/benz9527/rbmap/lib/xlog"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestKeySource(t *testing.T) {
	testcases := []struct {
		name     string
		src      keySource
		args     []string
		expected []int64
		wantErr  bool
	}{
		{name: "args", args: []string{"10", "5", "-3"}, expected: []int64{10, 5, -3}},
		{name: "seq", src: keySource{seq: 4}, expected: []int64{1, 2, 3, 4}},
		{name: "args then seq", src: keySource{seq: 2}, args: []string{"7"}, expected: []int64{7, 1, 2}},
		{name: "invalid", args: []string{"ten"}, wantErr: true},
		{name: "negative", src: keySource{seq: -1}, wantErr: true},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			keys, err := tc.src.keys(tc.args)
			if tc.wantErr {
				require.Error(tt, err)
				return
			}
			require.NoError(tt, err)
			require.Equal(tt, tc.expected, keys)
		})
	}

	src := keySource{rand: 100, seed: 7}
	first, err := src.keys(nil)
	require.NoError(t, err)
	second, err := src.keys(nil)
	require.NoError(t, err)
	require.Len(t, first, 100)
	require.Equal(t, first, second)
	for _, key := range first {
		require.GreaterOrEqual(t, key, int64(0))
		require.Less(t, key, int64(1000))
	}
}

func TestKeySourceBuild_SkipsDuplicates(t *testing.T) {
	src := keySource{}
	rbtree, err := src.build([]string{"3", "1", "3", "2", "1"}, xlog.NewNopXLogger())
	require.NoError(t, err)
	require.Equal(t, int64(3), rbtree.Len())
	require.NoError(t, tree.Validate(rbtree))
	val, err := rbtree.Find(2).Val()
	require.NoError(t, err)
	require.Equal(t, int64(3), val)

	src.desc = true
	rbtree, err = src.build([]string{"1", "2", "3"}, xlog.NewNopXLogger())
	require.NoError(t, err)
	key, err := rbtree.Begin().Key()
	require.NoError(t, err)
	require.Equal(t, int64(3), key)
}

func TestStatsCmd(t *testing.T) {
	out, err := runCmd(t, "stats", "--draw", "--depths", "10", "5", "15", "3", "7")
	require.NoError(t, err)
	require.Contains(t, out, "METRIC")
	require.Contains(t, out, "successful search cost")
	require.Contains(t, out, "2.2000")
	require.Contains(t, out, "2.6667")
	require.Contains(t, out, strings.Join([]string{
		"[10]",
		"├── [5]",
		"│   ├── <3>",
		"│   └── <7>",
		"└── [15]",
	}, "\n"))
	require.Contains(t, out, "depths: count: 5")
	require.Contains(t, out, "max: 2")
}

func TestStatsCmd_Empty(t *testing.T) {
	out, err := runCmd(t, "stats", "--draw", "--depths")
	require.NoError(t, err)
	require.Contains(t, out, "-1")
	require.Contains(t, out, "(empty)")
	require.Contains(t, out, "depths: (empty)")
}

func TestStatsCmd_InvalidKey(t *testing.T) {
	_, err := runCmd(t, "stats", "1", "x")
	require.Error(t, err)
}

func TestGrowthHeights(t *testing.T) {
	heights, err := growthHeights(15, false)
	require.NoError(t, err)
	require.Len(t, heights, 15)
	require.Equal(t, 0.0, heights[0])
	for i := 1; i < len(heights); i++ {
		require.GreaterOrEqual(t, heights[i], heights[i-1])
	}
	require.LessOrEqual(t, heights[14], 7.0)

	desc, err := growthHeights(15, true)
	require.NoError(t, err)
	require.Equal(t, heights, desc)
}

func TestGrowthCmd(t *testing.T) {
	out, err := runCmd(t, "growth", "--max", "64", "--height", "5")
	require.NoError(t, err)
	require.Contains(t, out, "height over 64 sequential inserts")

	_, err = runCmd(t, "growth", "--max", "0")
	require.Error(t, err)
}

func TestMetricsCmd(t *testing.T) {
	out, err := runCmd(t, "metrics", "--name", "cli", "--seq", "7")
	require.NoError(t, err)
	require.Contains(t, out, "rbtree.height")
	require.Contains(t, out, "cli")
}

func TestServeApp(t *testing.T) {
	src := keySource{}
	rbtree, err := src.build([]string{"10", "5", "15", "3", "7"}, xlog.NewNopXLogger())
	require.NoError(t, err)

	opts := &serveOptions{name: "served", listen: "127.0.0.1:0"}
	var server *metricsServer
	app := fxtest.New(t, append(
		serveAppOptions(opts, xlog.NewNopXLogger(), rbtree),
		fx.Populate(&server),
	)...)
	app.RequireStart()
	defer app.RequireStop()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://"+server.Addr()+"/metrics", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "rbtree_height")
	require.Contains(t, string(body), `tree="served"`)
}
