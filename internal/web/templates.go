package web

import (
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/ziadkadry99/libsearch/internal/resource"
)

var templateFuncs = template.FuncMap{
	"itemTitle": itemTitle,
	"itemURL":   itemURL,
	"itemField": itemField,
	"itemJSON":  itemJSON,
}

// parseViews clones the layout once per view so each view can define its own
// "content" block.
func parseViews() (map[string]*template.Template, error) {
	base, err := template.New("layout").Funcs(templateFuncs).Parse(layoutTemplate)
	if err != nil {
		return nil, err
	}

	sources := map[string]string{
		viewLibs:  libsTemplate,
		viewRepos: reposTemplate,
		viewAbout: aboutTemplate,
	}
	views := make(map[string]*template.Template, len(sources))
	for name, src := range sources {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.New(name).Parse(src); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		views[name] = t
	}
	return views, nil
}

// itemTitle picks a display name from an opaque record.
func itemTitle(it resource.Item) string {
	for _, k := range []string{"name", "full_name", "title", "id"} {
		if v := itemField(it, k); v != "" {
			return v
		}
	}
	return "(untitled)"
}

func itemURL(it resource.Item) string {
	for _, k := range []string{"url", "html_url", "homepage"} {
		if v := itemField(it, k); v != "" {
			return v
		}
	}
	return ""
}

func itemField(it resource.Item, key string) string {
	v, ok := it[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func itemJSON(it resource.Item) string {
	b, err := json.Marshal(it)
	if err != nil {
		return ""
	}
	return string(b)
}

const layoutTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} · libsearch</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; margin: 0; color: #1f2328; }
header { background: #24292f; padding: 0 24px; }
header ul { list-style: none; margin: 0; padding: 0; display: flex; }
header li a { display: block; padding: 14px 16px; color: #d0d7de; text-decoration: none; }
header li.on a, header li.active a { color: #fff; border-bottom: 2px solid #fd8c73; }
main { max-width: 880px; margin: 24px auto; padding: 0 24px; }
.items { list-style: none; padding: 0; }
.items li { padding: 10px 0; border-bottom: 1px solid #d8dee4; }
.items .desc { color: #656d76; font-size: 14px; }
.tabs a { margin-right: 12px; }
.tabs a.active { font-weight: 600; }
.empty, .loading { color: #656d76; }
</style>
</head>
<body>
<header>
<ul class="nav-menu">
{{- range .Menu}}
<li{{if .Class}} class="{{.Class}}"{{end}}><a href="{{.URL}}">{{.Label}}</a></li>
{{- end}}
</ul>
</header>
<main>
{{template "content" .}}
</main>
</body>
</html>
`

const itemsBlock = `
{{define "items"}}
<ul class="items" id="items">
{{- range .Items}}
<li>
{{- with itemURL .}}<a href="{{.}}">{{end}}<strong>{{itemTitle .}}</strong>{{with itemURL .}}</a>{{end}}
{{- with itemField . "description"}}<div class="desc">{{.}}</div>{{end}}
</li>
{{- end}}
</ul>
{{- if .Pending}}
<p class="loading" id="status">Loading…</p>
<script>
(function() {
  var ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + {{.LiveURL}});
  ws.onmessage = function(ev) {
    var msg = JSON.parse(ev.data), list = document.getElementById('items');
    (msg.items || []).forEach(function(it) {
      var li = document.createElement('li'), strong = document.createElement('strong');
      strong.textContent = it.name || it.full_name || it.title || it.id || '(untitled)';
      var href = it.url || it.html_url || it.homepage;
      if (href && /^(https?:|mailto:|[^:]*$)/i.test(String(href))) {
        var a = document.createElement('a');
        a.href = String(href);
        a.appendChild(strong);
        li.appendChild(a);
      } else {
        li.appendChild(strong);
      }
      if (it.description) {
        var d = document.createElement('div');
        d.className = 'desc';
        d.textContent = it.description;
        li.appendChild(d);
      }
      list.appendChild(li);
    });
    document.getElementById('status').remove();
  };
})();
</script>
{{- else if not .Items}}
<p class="empty">Nothing here yet.</p>
{{- end}}
{{end}}
`

const libsTemplate = `{{define "content"}}
<nav class="tabs">
<a href="{{.BasePath}}/libs"{{if call .IsActive "/libs"}} class="active"{{end}}>Libraries</a>
<a href="{{.BasePath}}/repos"{{if call .IsActive "/repos"}} class="active"{{end}}>Repositories</a>
</nav>
<h1>Libraries</h1>
{{template "items" .}}
{{end}}` + itemsBlock

const reposTemplate = `{{define "content"}}
<h1>Repositories</h1>
{{template "items" .}}
{{end}}` + itemsBlock

const aboutTemplate = `{{define "content"}}
<article class="about">
{{.About}}
</article>
{{end}}`
