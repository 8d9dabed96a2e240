package ffmpeg

import (
	"testing"

	"subtran/internal/types"
)

func TestParseSubtitleCodec(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want string
	}{
		{
			"pgs stream",
			"[STREAM]\nindex=2\ncodec_name=hdmv_pgs_subtitle\ncodec_type=subtitle\n[/STREAM]\n",
			types.CodecPGS,
		},
		{
			"subrip stream",
			"[STREAM]\ncodec_name=subrip\n[/STREAM]\n",
			types.CodecSRT,
		},
		{
			"first stream wins",
			"codec_name=subrip\ncodec_name=hdmv_pgs_subtitle\n",
			types.CodecSRT,
		},
		{"no subtitle stream", "", ""},
		{"unrelated codec", "codec_name=dvd_subtitle\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseSubtitleCodec(tt.out); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}
