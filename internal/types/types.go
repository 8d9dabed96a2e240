package types

// Cue is a single timed subtitle entry. Index is 1-based and strictly
// increasing in emission order; Start and End are milliseconds from the
// beginning of the stream.
type Cue struct {
	Index int    `json:"index"`
	Start int64  `json:"start_ms"`
	End   int64  `json:"end_ms"`
	Text  string `json:"text"`
}

// Subtitle codecs reported by the media tool when probing a container.
const (
	CodecPGS = "pgs"
	CodecSRT = "srt"
)
