package preview

import (
	"bytes"
	"net/http"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// ScriptPath serves the live reload client.
	ScriptPath = "/_fluxpress/livereload.js"
	// EventsPath is the SSE endpoint.
	EventsPath = "/_fluxpress/livereload"

	maxInjectSize = 2 << 20
)

const clientScript = `(() => {
  if (window.__FLUXPRESS_LR__) return;
  window.__FLUXPRESS_LR__ = true;
  function connect() {
    const es = new EventSource('` + EventsPath + `');
    let current = null;
    es.onmessage = (e) => {
      try {
        const p = JSON.parse(e.data);
        if (current === null) { current = p.hash; return; }
        if (p.hash && p.hash !== current) { location.reload(); }
      } catch (_) {}
    };
    es.onerror = () => { es.close(); setTimeout(connect, 2000); };
  }
  connect();
})();
`

// InjectLiveReload appends a script element loading src to the document body.
// Documents without a body get one from the parser.
func InjectLiveReload(doc []byte, src string) ([]byte, error) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, err
	}
	body := findElement(root, atom.Body)
	if body == nil {
		return doc, nil
	}
	body.AppendChild(&html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Script,
		Data:     "script",
		Attr:     []html.Attribute{{Key: "src", Val: src}, {Key: "async"}},
	})
	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func isHTMLPath(p string) bool {
	return p == "" || strings.HasSuffix(p, "/") || strings.HasSuffix(p, ".html")
}

// injectMiddleware buffers HTML responses of next and adds the live reload
// script. Non-HTML and oversized responses pass through unchanged.
func injectMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || !isHTMLPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		iw := &injectWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(iw, r)
		iw.finish()
	})
}

type injectWriter struct {
	http.ResponseWriter
	status      int
	buf         bytes.Buffer
	passthrough bool
	wroteHeader bool
	decided     bool
}

func (w *injectWriter) WriteHeader(code int) {
	w.status = code
	if w.passthrough {
		w.flushHeader()
	}
}

func (w *injectWriter) flushHeader() {
	if !w.wroteHeader {
		w.ResponseWriter.WriteHeader(w.status)
		w.wroteHeader = true
	}
}

func (w *injectWriter) Write(p []byte) (int, error) {
	if !w.decided {
		w.decided = true
		ct := w.Header().Get("Content-Type")
		if ct != "" && !strings.Contains(ct, "text/html") {
			w.passthrough = true
		}
	}
	if !w.passthrough && w.buf.Len()+len(p) > maxInjectSize {
		w.passthrough = true
		w.Header().Del("Content-Length")
		w.flushHeader()
		if _, err := w.ResponseWriter.Write(w.buf.Bytes()); err != nil {
			return 0, err
		}
		w.buf.Reset()
	}
	if w.passthrough {
		w.flushHeader()
		return w.ResponseWriter.Write(p)
	}
	return w.buf.Write(p)
}

func (w *injectWriter) finish() {
	if w.passthrough {
		w.flushHeader()
		return
	}
	out := w.buf.Bytes()
	if w.buf.Len() > 0 {
		if injected, err := InjectLiveReload(out, ScriptPath); err == nil {
			out = injected
		}
	}
	w.Header().Del("Content-Length")
	w.flushHeader()
	_, _ = w.ResponseWriter.Write(out)
}

func serveClientScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write([]byte(clientScript))
}
