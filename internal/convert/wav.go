package convert

import (
	"bytes"
	"encoding/binary"
)

// Silent loop format: 16 bit mono PCM, a tenth of a second long.
const (
	silenceRate     = 44100
	silenceBits     = 16
	silenceChannels = 1
	silenceFrames   = silenceRate / 10
)

type wavFormat struct {
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// wavSampler is a smpl chunk with a single forward loop.
type wavSampler struct {
	Manufacturer      uint32
	Product           uint32
	SamplePeriod      uint32
	MIDIUnityNote     uint32
	MIDIPitchFraction uint32
	SMPTEFormat       uint32
	SMPTEOffset       uint32
	SampleLoops       uint32
	SamplerData       uint32
	CuePointID        uint32
	LoopType          uint32
	LoopStart         uint32
	LoopEnd           uint32
	LoopFraction      uint32
	LoopPlayCount     uint32
}

// SilentLoop returns a WAV file of silence whose whole length loops.
func SilentLoop() []byte {
	blockAlign := silenceChannels * silenceBits / 8

	var body bytes.Buffer

	body.WriteString("WAVE")
	chunk(&body, "fmt ", wavFormat{
		AudioFormat:   1,
		Channels:      silenceChannels,
		SampleRate:    silenceRate,
		ByteRate:      silenceRate * uint32(blockAlign),
		BlockAlign:    uint16(blockAlign),
		BitsPerSample: silenceBits,
	})
	chunk(&body, "data", make([]byte, silenceFrames*blockAlign))
	chunk(&body, "smpl", wavSampler{
		SamplePeriod:  1_000_000_000 / silenceRate,
		MIDIUnityNote: 60,
		SampleLoops:   1,
		LoopEnd:       silenceFrames - 1,
	})

	var out bytes.Buffer

	out.WriteString("RIFF")
	_ = binary.Write(&out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())

	return out.Bytes()
}

// chunk appends a RIFF chunk. Writes to a bytes.Buffer do not fail.
func chunk(w *bytes.Buffer, id string, payload any) {
	var data bytes.Buffer

	_ = binary.Write(&data, binary.LittleEndian, payload)

	w.WriteString(id)
	_ = binary.Write(w, binary.LittleEndian, uint32(data.Len()))
	w.Write(data.Bytes())

	if data.Len()%2 == 1 {
		w.WriteByte(0)
	}
}
