package report

import (
	"io/ioutil"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

const (
	fontFamily          = "NanumGothic"
	extraBoldFontFamily = "NanumGothicExtraBold"
	fallbackFontFamily  = "Helvetica"

	regularFontFile   = "NanumGothic-Regular.ttf"
	boldFontFile      = "NanumGothic-Bold.ttf"
	extraBoldFontFile = "NanumGothic-ExtraBold.ttf"
)

type koreanFonts struct {
	regular   []byte
	bold      []byte
	extraBold []byte
}

// fontCache holds fonts for the life of the process, keyed by directory. A
// failed load isn't cached, so the next report tries again.
var fontCache = struct {
	mu    sync.Mutex
	fonts map[string]*koreanFonts
}{
	fonts: map[string]*koreanFonts{},
}

func loadFonts(dir string) (*koreanFonts, error) {
	fontCache.mu.Lock()
	defer fontCache.mu.Unlock()
	if fonts, ok := fontCache.fonts[dir]; ok {
		return fonts, nil
	}
	fonts := &koreanFonts{}
	for _, file := range []struct {
		name string
		dst  *[]byte
	}{
		{regularFontFile, &fonts.regular},
		{boldFontFile, &fonts.bold},
		{extraBoldFontFile, &fonts.extraBold},
	} {
		fontBytes, err := ioutil.ReadFile(filepath.Join(dir, file.name))
		if err != nil {
			return nil, errors.Wrapf(err, "error reading font %s", file.name)
		}
		*file.dst = fontBytes
	}
	fontCache.fonts[dir] = fonts
	return fonts, nil
}
