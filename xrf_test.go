package xrf_test

import (
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/xrf"
	"github.com/meigma/xrf/archive"
	"github.com/meigma/xrf/internal/testutil"
	"github.com/meigma/xrf/ogf"
	"github.com/meigma/xrf/omf"
	"github.com/meigma/xrf/particles"
)

func TestOpenParticles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	f := &particles.File{Header: particles.Header{Version: particles.HeaderVersion}}
	little := filepath.Join(dir, "particles.xr")
	big := filepath.Join(dir, "particles_be.xr")
	require.NoError(t, f.WriteFile(little))
	require.NoError(t, f.WriteFile(big, particles.WithByteOrder(binary.BigEndian)))

	got, err := xrf.OpenParticles(little)
	require.NoError(t, err)
	assert.Equal(t, particles.HeaderVersion, int(got.Header.Version))

	_, err = xrf.OpenParticles(big)
	require.Error(t, err)
	got, err = xrf.OpenParticles(big, xrf.WithByteOrder(binary.BigEndian))
	require.NoError(t, err)
	assert.Equal(t, particles.HeaderVersion, int(got.Header.Version))
}

func TestOpenModels(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	model := &ogf.File{
		Header:     ogf.Header{FormatVersion: 4, ModelType: 3},
		Kinematics: &ogf.Kinematics{SourceChunkID: ogf.KinematicsChunkID, MotionRefs: []string{"stalker_animation"}},
	}
	require.NoError(t, model.WriteFile(filepath.Join(dir, "stalker.ogf")))
	gotModel, err := xrf.OpenModel(filepath.Join(dir, "stalker.ogf"))
	require.NoError(t, err)
	assert.Equal(t, []string{"stalker_animation"}, gotModel.MotionRefs())

	motions := &omf.File{Parameters: omf.Parameters{Version: omf.MarksVersion}}
	require.NoError(t, motions.WriteFile(filepath.Join(dir, "stalker_animation.omf")))
	gotMotions, err := xrf.OpenMotions(filepath.Join(dir, "stalker_animation.omf"))
	require.NoError(t, err)
	assert.Empty(t, gotMotions.Motions)
	assert.Zero(t, gotMotions.BonesCount())
}

func TestOpenArchive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.WriteFile(t, dir, "gamedata.db0", testutil.BuildArchive(t, "gamedata", []testutil.ArchiveFile{
		{Name: `config\system.ltx`, Content: []byte("[section]\r\n")},
	}))
	p, err := xrf.OpenArchive(dir, xrf.WithWorkers(-1))
	require.NoError(t, err)
	require.Len(t, p.Files, 1)

	var s xrf.Session[*archive.Project]
	s.Open(p)
	err = s.With(func(p *archive.Project) error {
		got, err := p.ReadFileAsString(`config\system.ltx`)
		if err != nil {
			return err
		}
		assert.Equal(t, "[section]\r\n", got.Content)
		return nil
	})
	require.NoError(t, err)
}

func TestOpenErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := xrf.OpenSpawn(filepath.Join(dir, "missing.spawn"))
	require.ErrorIs(t, err, xrf.ErrIO)

	_, err = xrf.OpenArchive(dir)
	require.ErrorIs(t, err, xrf.ErrNotFound)
}
