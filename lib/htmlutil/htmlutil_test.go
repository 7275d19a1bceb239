package htmlutil

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	require.Equal(t, "Get 20% Off", CleanText("\n\t  Get   20%\u0007 Off \n"))
	require.Equal(t, "", CleanText("   "))
}

func TestGetAnchors(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<div>
			<a href="/store/nordvpn">  NordVPN
				coupons </a>
			<a>no href</a>
			<a href="https://other.example/x">Other</a>
		</div>`))
	require.Nil(t, err)

	base, err := url.Parse("https://dealspotr.com/search")
	require.Nil(t, err)

	anchors := GetAnchors(context.Background(), doc.Find("a"), base)
	require.Equal(t, []Anchor{
		{Name: "NordVPN coupons", Href: "https://dealspotr.com/store/nordvpn"},
		{Name: "Other", Href: "https://other.example/x"},
	}, anchors)
}

func TestUnescapeJSONURL(t *testing.T) {
	require.Equal(
		t,
		"https://cdn.example/v.mp4?a=1&b=2",
		UnescapeJSONURL(`https:\/\/cdn.example\/v.mp4?a=1\u0026b=2`),
	)
}

func TestGetTextWithBreaks(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<div class="df-value">ns1.example.com<br>  ns2.example.com<br/></div>`,
	))
	require.Nil(t, err)

	text := GetTextWithBreaks(doc.Find(".df-value").Get(0))
	require.Equal(t, "ns1.example.com\nns2.example.com", CleanLines(text))
}

func TestScriptJSON(t *testing.T) {
	page := `<script>var ytInitialData = {"a":{"b":"};</script>"}};var other = 1;</script>`

	var out struct {
		A struct {
			B string `json:"b"`
		} `json:"a"`
	}
	require.True(t, ScriptJSON(page, "var ytInitialData", &out))
	require.Equal(t, "};</script>", out.A.B)

	require.False(t, ScriptJSON(page, "ytInitialPlayerResponse", &out))
	require.False(t, ScriptJSON(`x = {broken`, "x", &out))
}
