package coupons

import (
	"context"
	"io"
	"net/url"
	"regexp"
	"strings"
	"toolbox-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

type Coupon struct {
	Code  string `json:"code"`
	Title string `json:"title"`
}

var digitsRegex = regexp.MustCompile(`\d+`)

// parseStoreSearch returns the first store block linking to a store page.
func parseStoreSearch(ctx context.Context, r io.Reader, base *url.URL) (storeUrl, storeName string, err error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", "", err
	}

	doc.Find("div.storeblock--main").EachWithBreak(func(_ int, block *goquery.Selection) bool {
		anchors := htmlutil.GetAnchors(ctx, block.Find("a.gr3").First(), base)
		if len(anchors) == 0 {
			return true
		}
		link, err := url.Parse(anchors[0].Href)
		if err != nil {
			return true
		}
		storeUrl = link.String()

		storeName = lastSegment(link.Path)
		if name := block.Find("span.href.gr9").First(); name.Length() > 0 {
			storeName, _, _ = strings.Cut(htmlutil.SelectionText(name), "/")
			storeName = strings.TrimSpace(storeName)
		}
		return false
	})
	return storeUrl, storeName, nil
}

// parseCouponId reads the numeric id of the first coupon block, the
// coupon listing lives under that id.
func parseCouponId(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}
	id, _ := doc.Find("div.copy-code").First().Attr("id")
	return digitsRegex.FindString(id), nil
}

func parseCoupons(r io.Reader) ([]Coupon, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	coupons := []Coupon{}
	doc.Find("div.copy-code").Each(func(_ int, block *goquery.Selection) {
		coupon := Coupon{
			Code:  "No code available",
			Title: "No title available",
		}
		if title := block.Find("div.promoblock--title").First(); title.Length() > 0 {
			coupon.Title = htmlutil.SelectionText(title)
		}
		if code, _ := block.Find(`input.dnone[type="text"]`).First().Attr("value"); code != "" {
			coupon.Code = code
		}
		coupons = append(coupons, coupon)
	})
	return coupons, nil
}

func lastSegment(path string) string {
	path = strings.TrimRight(path, "/")
	return path[strings.LastIndex(path, "/")+1:]
}
