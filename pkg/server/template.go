package server

import (
	"html/template"

	"github.com/skielred/twitter-images-collector/pkg/feed"
)

type indexData struct {
	AppName string
	Images  []feed.Image
}

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.AppName}}</title>
<style>
body { margin: 0; background: #111; color: #ddd; font-family: sans-serif; }
h1 { text-align: center; font-size: 1.2em; margin: 12px 0; }
#imgs { display: flex; flex-wrap: wrap; justify-content: center; }
#imgs a { margin: 4px; }
#imgs img { max-height: 320px; max-width: 95vw; display: block; }
#more { display: block; margin: 16px auto; padding: 8px 24px; font-size: 1.1em; }
</style>
</head>
<body>
<h1>{{.AppName}}</h1>
<div id="imgs">
{{range .Images}}<a href="{{.Href}}" target="_blank" rel="noopener" data-id="{{.ID}}"><img src="{{.Src}}" alt="{{.Alt}}" title="{{.Alt}}" loading="lazy"></a>
{{end}}</div>
<button id="more">more</button>
<script src="/static/app.js"></script>
</body>
</html>
`
