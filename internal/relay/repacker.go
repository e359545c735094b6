package relay

// FrameSize is the number of audio bytes per outbound Twilio media frame,
// one packetization unit of the passthrough codec.
const FrameSize = 160

// frameRepacker reframes an arbitrarily chunked audio byte stream into
// fixed-size frames, holding any remainder until the next push or a flush.
type frameRepacker struct {
	frameSize int
	residual  []byte
}

// Push appends chunk to the residual and returns every complete frame now
// available, in byte order. The residual it keeps is always shorter than
// one frame.
func (r *frameRepacker) Push(chunk []byte) [][]byte {
	r.residual = append(r.residual, chunk...)
	var frames [][]byte
	for len(r.residual) >= r.frameSize {
		frame := make([]byte, r.frameSize)
		copy(frame, r.residual[:r.frameSize])
		r.residual = r.residual[r.frameSize:]
		frames = append(frames, frame)
	}
	return frames
}

// Flush returns whatever remains as a final short frame, or nil if the
// residual is empty. Flushing an empty repacker is a no-op.
func (r *frameRepacker) Flush() []byte {
	if len(r.residual) == 0 {
		return nil
	}
	frame := make([]byte, len(r.residual))
	copy(frame, r.residual)
	r.residual = nil
	return frame
}

func (r *frameRepacker) Reset() {
	r.residual = nil
}

func (r *frameRepacker) ResidualLen() int {
	return len(r.residual)
}
