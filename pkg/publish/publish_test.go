package publish

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomlens/roomlens/pkg/frame"
)

func TestFakePublisher_RecordsFramesAndBoots(t *testing.T) {
	f := &FakePublisher{}

	require.NoError(t, f.Boot("bench"))
	require.NoError(t, f.Emit(frame.Frame{T: 83, Lux: 0.5}))
	require.NoError(t, f.Emit(frame.Frame{T: 166, PIR: true}))
	require.NoError(t, f.Close())

	assert.Equal(t, []string{"bench"}, f.Boots)
	require.Len(t, f.Frames, 2)
	assert.Equal(t, uint32(83), f.Frames[0].T)
	assert.True(t, f.Frames[1].PIR)
	assert.True(t, f.Closed)
}

func TestFakePublisher_EmitErr(t *testing.T) {
	f := &FakePublisher{EmitErr: errors.New("broker gone")}

	assert.Error(t, f.Emit(frame.Frame{}))
	assert.Error(t, f.Boot("bench"))
	assert.Empty(t, f.Frames)
	assert.Empty(t, f.Boots)
}

func TestTopics(t *testing.T) {
	assert.Equal(t, "roomlens/telemetry/frames", TopicFrames)
	assert.Equal(t, "roomlens/telemetry/system", TopicSystem)
}
