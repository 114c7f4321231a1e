package main

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anupcshan/srecpatch/bca"
	"github.com/anupcshan/srecpatch/srec"
)

func fixture(t *testing.T) []byte {
	t.Helper()

	scope := []byte{0x11, 0x22, 0x33, 0x44}
	header := make([]byte, 16)
	binary.LittleEndian.PutUint32(header[0x0:], bca.Tag)
	binary.LittleEndian.PutUint32(header[0x4:], 0x8000)
	binary.LittleEndian.PutUint32(header[0x8:], 4)
	binary.LittleEndian.PutUint32(header[0xC:], 0)

	return []byte(strings.Join([]string{
		srec.Format(srec.TypeData16, 0x8000, scope),
		srec.Format(srec.TypeData16, 0x43C0, header),
		srec.Format(srec.TypeStart16, 0, nil),
	}, "\n") + "\n")
}

func TestRunWritesOutputFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "in.srec", fixture(t), 0644))

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(fsys, &stdout, &stderr)
	cmd.SetArgs([]string{"-b", "0x43c0", "-o", "out.srec", "in.srec"})
	require.NoError(t, cmd.Execute())

	out, err := afero.ReadFile(fsys, "out.srec")
	require.NoError(t, err)
	assert.Empty(t, stdout.Bytes())

	// Output must be a valid SREC stream with the CRC stored in the field.
	f, err := srec.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	var stored uint32
	for _, rec := range f.Records() {
		if rec.Address == 0x43C0 {
			stored = binary.LittleEndian.Uint32(rec.Data[0xC:])
		}
	}
	assert.Equal(t, bca.CRC([]byte{0x11, 0x22, 0x33, 0x44}), stored)
}

func TestRunDefaultsToStdout(t *testing.T) {
	fsys := afero.NewMemMapFs()
	input := fixture(t)
	require.NoError(t, afero.WriteFile(fsys, "in.srec", input, 0644))

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(fsys, &stdout, &stderr)
	cmd.SetArgs([]string{"--bca-address", "0x43C0", "in.srec"})
	require.NoError(t, cmd.Execute())

	_, err := srec.Decode(bytes.NewReader(stdout.Bytes()))
	assert.NoError(t, err)
	assert.Equal(t, len(input), stdout.Len(), "line structure unchanged")
}

func TestRunRejectsBadAddress(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "in.srec", fixture(t), 0644))

	cmd := newRootCmd(fsys, &bytes.Buffer{}, &bytes.Buffer{})
	cmd.SetArgs([]string{"-b", "0xnope", "in.srec"})
	assert.Error(t, cmd.Execute())
}

func TestRunMissingInputFile(t *testing.T) {
	cmd := newRootCmd(afero.NewMemMapFs(), &bytes.Buffer{}, &bytes.Buffer{})
	cmd.SetArgs([]string{"absent.srec"})
	assert.Error(t, cmd.Execute())
}

func TestRunDebugLogsToStderr(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "in.srec", fixture(t), 0644))

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(fsys, &stdout, &stderr)
	cmd.SetArgs([]string{"-b", "0x43c0", "-d", "in.srec"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, stderr.String(), "crcStart=0x00008000")
	assert.NotEmpty(t, stdout.Bytes())
}