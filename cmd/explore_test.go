package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/csvlens-cli/internal/parser"
	"github.com/KaramelBytes/csvlens-cli/internal/workspace"
)

func TestSessionCommands(t *testing.T) {
	_, p := isolate(t)
	var out bytes.Buffer
	s := newSession(context.Background(), workspace.New(parser.Options{}, 0), &out)

	_, err := s.exec("columns")
	require.ErrorIs(t, err, workspace.ErrNoDataset)

	_, err = s.exec("load " + p)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "✓ Loaded harvest.csv: 8 rows, 4 columns")

	out.Reset()
	_, err = s.exec("columns")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "yield")
	assert.Contains(t, out.String(), "numerical")

	out.Reset()
	_, err = s.exec("head 2")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "(2 of 8 rows)")

	out.Reset()
	_, err = s.exec("stats yield")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "| yield | 7 |")

	out.Reset()
	_, err = s.exec("insights")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Dataset Overview")

	out.Reset()
	_, err = s.exec("chart scatter yield yield")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.String(), "| yield | yield |"))

	_, err = s.exec("chart pie variety")
	assert.Error(t, err)
	_, err = s.exec("frobnicate")
	assert.Error(t, err)

	quit, err := s.exec("quit")
	require.NoError(t, err)
	assert.True(t, quit)
}

func TestSessionFailedLoadKeepsDataset(t *testing.T) {
	home, p := isolate(t)
	var out bytes.Buffer
	s := newSession(context.Background(), workspace.New(parser.Options{}, 0), &out)
	_, err := s.exec("load " + p)
	require.NoError(t, err)

	_, err = s.exec("load " + home + "/absent.csv")
	require.Error(t, err)

	ds, err := s.w.Current()
	require.NoError(t, err)
	assert.Equal(t, "harvest.csv", ds.Name)
}
