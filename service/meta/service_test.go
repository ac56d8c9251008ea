package meta

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

type document struct {
	Name   string   `yaml:"name"`
	Frames int      `yaml:"frames"`
	Apps   []string `yaml:"apps"`
}

func TestService_Load(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	content := "name: ${env.KERNEL_NAME}\nframes: 64\napps:\n  - init\n  - hello\n"
	require.NoError(t, fs.Upload(ctx, "mem://localhost/meta/kernel.yaml", file.DefaultFileOsMode, bytes.NewReader([]byte(content))))

	srv := New(fs, "mem://localhost/meta")
	srv.lookup = func(key string) string {
		if key == "KERNEL_NAME" {
			return "taskos"
		}
		return ""
	}
	testCases := []struct {
		name     string
		location string
		expect   document
		wantErr  bool
	}{
		{name: "relative", location: "kernel.yaml", expect: document{Name: "taskos", Frames: 64, Apps: []string{"init", "hello"}}},
		{name: "absolute", location: "mem://localhost/meta/kernel.yaml", expect: document{Name: "taskos", Frames: 64, Apps: []string{"init", "hello"}}},
		{name: "missing", location: "missing.yaml", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var actual document
			err := srv.Load(ctx, tc.location, &actual)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expect, actual)
		})
	}
}

func TestService_Decode(t *testing.T) {
	srv := New(afs.New(), "")
	var actual document
	assert.Error(t, srv.Decode([]byte("name: [unterminated"), &actual))
	assert.Equal(t, "file.yaml", srv.URL("file.yaml"))
}
