package panel

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidmerge/internal/media"
	"vidmerge/internal/model"
	"vidmerge/internal/queue"
)

func vid(name string) media.Item {
	return media.Item{Name: name, Path: "/" + name, Kind: media.KindVideo}
}

func img(name string) media.Item {
	return media.Item{Name: name, Path: "/" + name, Kind: media.KindImage}
}

func TestMergeRequestValidation(t *testing.T) {
	s := NewSession(&fakeSubmitter{}, queue.New())
	_, err := s.MergeRequest()
	assert.ErrorIs(t, err, ErrNoFiles)

	s.Queue().Append(vid("a.mp4"))
	_, err = s.MergeRequest()
	assert.ErrorIs(t, err, ErrNoOutputFolder)

	s.SetOutputDir("/out")
	s.Queue().Append(img("b.png"))
	_, err = s.MergeRequest()
	assert.ErrorIs(t, err, ErrMixedFiles)
}

func TestMergeRequestPicksVariant(t *testing.T) {
	s := NewSession(&fakeSubmitter{}, queue.New(vid("a.mp4"), vid("b.mov")))
	s.SetOutputDir("/out")
	req, err := s.MergeRequest()
	require.NoError(t, err)
	assert.Equal(t, model.Merge{Items: []media.Item{vid("a.mp4"), vid("b.mov")}, OutputDir: "/out"}, req)

	s2 := NewSession(&fakeSubmitter{}, queue.New(img("a.png"), img("b.jpg")))
	s2.SetOutputDir("/out")
	s2.SetImageDuration(3.5)
	req, err = s2.MergeRequest()
	require.NoError(t, err)
	mi, ok := req.(model.MergeImages)
	require.True(t, ok)
	assert.Equal(t, 3.5, mi.PerImageDuration)
	assert.Len(t, mi.Items, 2)
}

func TestImageDurationBounds(t *testing.T) {
	s := NewSession(&fakeSubmitter{}, queue.New())
	assert.Equal(t, 2.0, s.ImageDuration())
	s.SetImageDuration(0.1)
	assert.Equal(t, 0.5, s.ImageDuration())
	s.SetImageDuration(30)
	assert.Equal(t, 10.0, s.ImageDuration())
	s.SetImageDuration(2.7)
	assert.Equal(t, 2.5, s.ImageDuration())
}

func TestStartMergeClearsQueueOnSuccess(t *testing.T) {
	fs := &fakeSubmitter{}
	s := NewSession(fs, queue.New(vid("a.mp4"), vid("b.mp4")))
	s.SetOutputDir("/out")
	require.True(t, s.Preview(0))
	require.True(t, s.Edit(1))

	res, err := s.StartMerge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/out/result.mp4", res.OutputFile)
	assert.Zero(t, s.Queue().Len())
	_, ok := s.Previewing()
	assert.False(t, ok)
	_, ok = s.Editing()
	assert.False(t, ok)
	assert.False(t, s.Guard().Busy())
}

func TestStartMergeKeepsQueueOnFailure(t *testing.T) {
	fs := &fakeSubmitter{err: errors.New("incompatible codecs")}
	s := NewSession(fs, queue.New(vid("a.mp4"), vid("b.mp4")))
	s.SetOutputDir("/out")

	_, err := s.StartMerge(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 2, s.Queue().Len())
}

func TestClearResetsSelections(t *testing.T) {
	s := NewSession(&fakeSubmitter{}, queue.New(vid("a.mp4")))
	require.True(t, s.Preview(0))
	require.True(t, s.Edit(0))
	assert.False(t, s.Preview(3))

	s.Queue().Clear()
	_, ok := s.Previewing()
	assert.False(t, ok)
	_, ok = s.Editing()
	assert.False(t, ok)
}

func TestSharedGuardExcludesPanel(t *testing.T) {
	fs := &fakeSubmitter{block: make(chan struct{}), started: make(chan struct{}, 1)}
	s := NewSession(fs, queue.New(vid("a.mp4")))
	s.SetOutputDir("/out")
	p := New(fs, vid("a.mp4"), "/out", WithGuard(s.Guard()))

	done := make(chan error, 1)
	go func() {
		_, err := s.StartMerge(context.Background())
		done <- err
	}()
	<-fs.started
	_, err := p.Submit(context.Background())
	assert.ErrorIs(t, err, ErrBusy)
	close(fs.block)
	require.NoError(t, <-done)
}
