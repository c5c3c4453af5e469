package midi

import (
	"encoding/base64"
	"encoding/binary"
	"testing"

	"github.com/jsphweid/midicritic/model"
	"github.com/jsphweid/midicritic/sample"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func header(numTracks uint16) []byte {
	res := []byte("MThd")
	res = binary.BigEndian.AppendUint32(res, 6)
	res = binary.BigEndian.AppendUint16(res, 1)
	res = binary.BigEndian.AppendUint16(res, numTracks)
	return binary.BigEndian.AppendUint16(res, 480)
}

func trackChunk(body []byte) []byte {
	res := []byte("MTrk")
	res = binary.BigEndian.AppendUint32(res, uint32(len(body)))
	return append(res, body...)
}

func file(tracks ...[]byte) []byte {
	res := header(uint16(len(tracks)))
	for _, t := range tracks {
		res = append(res, trackChunk(t)...)
	}
	return res
}

var endOfTrack = []byte{0x00, 0xFF, 0x2F, 0x00}

func TestParsesEveryNoteOnWithMatchingNoteOffs(t *testing.T) {
	var body []byte
	for i := 0; i < 5; i++ {
		body = append(body, 0x00, 0x90, byte(60+i), 100)
		body = append(body, 0x83, 0x60, 0x80, byte(60+i), 0x40)
	}
	body = append(body, endOfTrack...)

	res, err := Parse(file(body))
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Len(res.Notes, 5)
	assert.Equal(1, res.Tracks)
	assert.Equal(0, res.Truncated)
	assert.Equal(uint64(5*480), res.MaxTick)
	for i, n := range res.Notes {
		assert.Equal(uint8(60+i), n.Pitch)
		assert.Equal(uint64(i*480), n.Tick)
	}
}

func TestVelocityZeroNoteOnIsNotEmitted(t *testing.T) {
	body := []byte{
		0x00, 0x90, 60, 100,
		0x60, 0x90, 60, 0,
		0x00, 0x91, 62, 0,
	}
	body = append(body, endOfTrack...)

	res, err := Parse(file(body))
	require.NoError(t, err)
	require.Len(t, res.Notes, 1)
	assert.Equal(t, model.NoteEvent{Pitch: 60, Velocity: 100, Channel: 0, Tick: 0}, res.Notes[0])
}

func TestRunningStatusMatchesExplicitStatus(t *testing.T) {
	explicit := []byte{
		0x00, 0x92, 60, 90,
		0x10, 0x92, 64, 80,
		0x10, 0x92, 67, 70,
		0x20, 0x82, 60, 0,
	}
	running := []byte{
		0x00, 0x92, 60, 90,
		0x10, 64, 80,
		0x10, 67, 70,
		0x20, 0x82, 60, 0,
	}

	a, err := Parse(file(append(explicit, endOfTrack...)))
	require.NoError(t, err)
	b, err := Parse(file(append(running, endOfTrack...)))
	require.NoError(t, err)

	assert.Len(t, a.Notes, 3)
	assert.Equal(t, a.Notes, b.Notes)
	assert.Equal(t, a.MaxTick, b.MaxTick)
}

func TestCorruptTrackDoesNotAffectNextTrack(t *testing.T) {
	// sysex declaring far more data than the chunk holds
	corrupt := []byte{
		0x00, 0x90, 48, 100,
		0x00, 0xF0, 0x8F, 0xFF, 0x7F, 0x01, 0x02,
	}
	good := append([]byte{
		0x00, 0x93, 72, 110,
		0x81, 0x00, 0x93, 74, 111,
	}, endOfTrack...)

	res, err := Parse(file(corrupt, good))
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(2, res.Tracks)
	assert.Equal(1, res.Truncated)
	assert.Equal([]model.NoteEvent{
		{Pitch: 48, Velocity: 100, Channel: 0, Tick: 0},
		{Pitch: 72, Velocity: 110, Channel: 3, Tick: 0},
		{Pitch: 74, Velocity: 111, Channel: 3, Tick: 128},
	}, res.Notes)
}

func TestTruncatedVLQKeepsCollectedNotes(t *testing.T) {
	body := []byte{0x00, 0x90, 60, 100, 0x81, 0x82}
	res, err := Parse(file(body))
	require.NoError(t, err)
	assert.Len(t, res.Notes, 1)
	assert.Equal(t, 1, res.Truncated)
}

func TestTrackLengthPastBufferEnd(t *testing.T) {
	body := []byte{0x00, 0x90, 60, 100, 0x00, 0x90, 62, 100}
	buf := header(1)
	buf = append(buf, []byte("MTrk")...)
	buf = binary.BigEndian.AppendUint32(buf, 1000)
	buf = append(buf, body...)

	res, err := Parse(buf)
	require.NoError(t, err)
	assert.Len(t, res.Notes, 2)
}

func TestSkipsMetaAndSysExEvents(t *testing.T) {
	body := []byte{
		0x00, 0xFF, 0x03, 0x05, 'P', 'i', 'a', 'n', 'o',
		0x00, 0xFF, 0x51, 0x03, 0x07, 0xA1, 0x20,
		0x00, 0xF0, 0x03, 0x7E, 0x7F, 0xF7,
		0x00, 0xC0, 0x05,
		0x00, 0xB0, 0x07, 0x64,
		0x00, 0xE0, 0x00, 0x40,
		0x00, 0xD0, 0x10,
		0x00, 0xA0, 60, 0x10,
		0x00, 0x90, 60, 64,
	}
	body = append(body, endOfTrack...)

	res, err := Parse(file(body))
	require.NoError(t, err)
	require.Len(t, res.Notes, 1)
	assert.Equal(t, uint8(60), res.Notes[0].Pitch)
	assert.Equal(t, 0, res.Truncated)
}

func TestUnknownStatusMakesProgress(t *testing.T) {
	body := []byte{
		0x00, 0xF4, 0x00,
		0x00, 0x90, 60, 64,
	}
	res, err := Parse(file(body))
	require.NoError(t, err)
	assert.Len(t, res.Notes, 1)
}

func TestHeaderlessBufferIsScanned(t *testing.T) {
	buf := append([]byte{0x01, 0x02, 0x03}, trackChunk(append([]byte{0x00, 0x95, 40, 20}, endOfTrack...))...)
	res, err := Parse(buf)
	require.NoError(t, err)
	require.Len(t, res.Notes, 1)
	assert.Equal(t, uint8(5), res.Notes[0].Channel)
}

func TestMaxTickIsTakenAcrossTracks(t *testing.T) {
	short := append([]byte{0x00, 0x90, 60, 64}, endOfTrack...)
	long := append([]byte{0x00, 0x91, 62, 64, 0x8F, 0x00, 0x81, 62, 0}, endOfTrack...)
	res, err := Parse(file(short, long))
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0F<<7), res.MaxTick)
}

func TestUnreadableBuffers(t *testing.T) {
	cases := map[string][]byte{
		"empty":        {},
		"too short":    []byte("MThd"),
		"header only":  header(0),
		"no track tag": []byte("this is definitely not a midi file"),
	}
	for name, buf := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(buf)
			assert.True(t, errors.Is(err, ErrUnreadable))
		})
	}
}

func TestParseBase64(t *testing.T) {
	body := append([]byte{0x00, 0x90, 60, 64}, endOfTrack...)
	res, err := ParseBase64(base64.StdEncoding.EncodeToString(file(body)))
	require.NoError(t, err)
	assert.Len(t, res.Notes, 1)

	_, err = ParseBase64("%%%")
	assert.True(t, errors.Is(err, ErrUnreadable))
}

func TestParsesFilesWrittenByGomidi(t *testing.T) {
	s, err := sample.Create(
		sample.Part{Channel: 0, Velocity: 100, Pitches: sample.MajorScale(60, 8)},
		sample.Part{Channel: 9, Program: 0, Velocity: 80, Pitches: []uint8{36, 38, 36, 38}},
	)
	require.NoError(t, err)
	dat, err := sample.Bytes(s)
	require.NoError(t, err)

	res, err := Parse(dat)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(2, res.Tracks)
	assert.Equal(0, res.Truncated)
	assert.Len(res.Notes, 12)
	assert.Equal(uint64(8*sample.TicksPerQuarter), res.MaxTick)
	assert.Equal(uint8(9), res.Notes[8].Channel)
	assert.Equal(uint64(3*sample.TicksPerQuarter), res.Notes[11].Tick)
}
