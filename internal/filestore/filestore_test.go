// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

package filestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTieredPath(t *testing.T) {
	assert.Equal(t, filepath.Join("00", "00", "00", "00", "14"), TieredPath(14))
	assert.Equal(t, filepath.Join("10", "00", "00", "00", "00"), TieredPath(10_000_000_000))
}

func TestGuessExtensionFromURL(t *testing.T) {
	assert.Equal(t, "png", GuessExtension("https://x/y.png", nil))
}

func TestFilesaveBits(t *testing.T) {
	assert.Equal(t, int64(7), FilesaveBits([][]byte{[]byte("PNG...")}, []byte("JPG...")))
	assert.Equal(t, int64(0), FilesaveBits(nil, nil))
}

func TestWriteAndLocateSubmissionFiles(t *testing.T) {
	root := t.TempDir()
	dir := SubmissionDir(root, 1)

	written, err := WriteSubmissionFiles(dir, [][]byte{[]byte("PNGDATA")}, []string{"png"})
	require.NoError(t, err)
	require.Len(t, written, 1)

	thumbPath, err := WriteThumbnail(dir, []byte("JPGDATA"))
	require.NoError(t, err)
	require.NotEmpty(t, thumbPath)

	files, thumb := SubmissionFiles(root, 1, 7, []string{"png"})
	require.Len(t, files, 1)
	assert.FileExists(t, files[0])
	assert.FileExists(t, thumb)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Equal(t, "PNGDATA", string(data))
}
