package weather

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	cardWidth  = 1200
	cardHeight = 600
)

// truetype faces cache glyphs and are not safe for concurrent use
var cardMutex sync.Mutex

type cardFonts struct {
	large   font.Face
	bold    font.Face
	regular font.Face
	small   font.Face
}

var loadFonts = sync.OnceValues(func() (cardFonts, error) {
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return cardFonts{}, err
	}
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return cardFonts{}, err
	}
	return cardFonts{
		large:   truetype.NewFace(bold, &truetype.Options{Size: 120}),
		bold:    truetype.NewFace(bold, &truetype.Options{Size: 40}),
		regular: truetype.NewFace(regular, &truetype.Options{Size: 38}),
		small:   truetype.NewFace(regular, &truetype.Options{Size: 36}),
	}, nil
})

// renderCard draws the current conditions as a PNG.
func renderCard(report Report) ([]byte, error) {
	fonts, err := loadFonts()
	if err != nil {
		return nil, err
	}
	cardMutex.Lock()
	defer cardMutex.Unlock()

	dc := gg.NewContext(cardWidth, cardHeight)
	dc.SetRGB255(30, 39, 50)
	dc.Clear()

	dc.SetFontFace(fonts.regular)
	dc.SetRGB255(200, 200, 200)
	dc.DrawStringAnchored(report.Current.Time, 1140, 30, 1, 1)

	dc.SetFontFace(fonts.bold)
	dc.SetRGB255(255, 255, 255)
	dc.DrawStringAnchored("Current Weather", 40, 40, 0, 1)

	dc.SetRGB255(200, 200, 200)
	dc.SetLineWidth(5)
	for i := range 3 {
		y := float64(230 + i*15)
		dc.DrawLine(320, y, 380, y)
		dc.Stroke()
	}

	dc.SetFontFace(fonts.large)
	dc.SetRGB255(255, 255, 255)
	dc.DrawStringAnchored(fmt.Sprintf("%.1f°C", report.Current.Temperature), 500, 180, 0, 1)

	dc.SetFontFace(fonts.regular)
	dc.SetRGB255(200, 200, 200)
	dc.DrawStringAnchored(report.Current.Weather, 530, 310, 0, 1)

	dc.SetFontFace(fonts.small)
	dc.DrawStringAnchored(fmt.Sprintf("RealFeel® %.1f°C", report.Current.FeelsLike), 510, 360, 0, 1)

	dc.SetFontFace(fonts.regular)
	location := report.Location.City
	if report.Location.Country != "" {
		location += ", " + report.Location.Country
	}
	dc.DrawStringAnchored(location, 40, 520, 0, 1)

	out := bytes.Buffer{}
	if err := dc.EncodePNG(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
