package catalog

import "strings"

// MediaType classifies a file by its extension (§6 extension table).
type MediaType string

const (
	MediaAudio     MediaType = "audio"
	MediaVideo     MediaType = "video"
	MediaDJProject MediaType = "dj-project"
	MediaImage     MediaType = "image"
	MediaUnknown   MediaType = "unknown"
)

var extensionTable = map[string]MediaType{
	// audio
	"mp3": MediaAudio, "wav": MediaAudio, "cda": MediaAudio, "wma": MediaAudio,
	"asf": MediaAudio, "ogg": MediaAudio, "m4a": MediaAudio, "aac": MediaAudio,
	"aif": MediaAudio, "aiff": MediaAudio, "flac": MediaAudio, "mpc": MediaAudio,
	"ape": MediaAudio, "weba": MediaAudio, "opus": MediaAudio,
	// video
	"mp4": MediaVideo, "ogm": MediaVideo, "ogv": MediaVideo, "avi": MediaVideo,
	"mpg": MediaVideo, "mpeg": MediaVideo, "wmv": MediaVideo, "vob": MediaVideo,
	"mov": MediaVideo, "divx": MediaVideo, "m4v": MediaVideo, "mkv": MediaVideo,
	"flv": MediaVideo, "webm": MediaVideo,
	// dj-project
	"vdj": MediaDJProject, "vdjcache": MediaDJProject, "vdjedit": MediaDJProject,
	"vdjsample": MediaDJProject, "vdjcachev": MediaDJProject,
	// image
	"apng": MediaImage,
}

// ClassifyExtension returns the media type for a (possibly dotted,
// mixed-case) extension, and whether it is supported at all.
func ClassifyExtension(ext string) (MediaType, bool) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	t, ok := extensionTable[ext]
	if !ok {
		return MediaUnknown, false
	}
	return t, true
}
