package avatar

import "bytes"

var imageSignatures = [][]byte{
	{0xff, 0xd8},                                  // JPEG
	{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, // PNG
	[]byte("GIF8"),                                // GIF
}

func validImage(data []byte, minSize int) bool {
	if len(data) < minSize {
		return false
	}
	for _, signature := range imageSignatures {
		if bytes.HasPrefix(data, signature) {
			return true
		}
	}
	return false
}
