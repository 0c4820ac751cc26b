// Package server serves the generated documentation over HTTP: the raw
// document as JSON plus a small HTML viewer.
package server

import (
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Config holds the server settings.
type Config struct {
	// Title shown in the viewer page header.
	Title string
	// DocsPath is the documentation JSON file on disk. It is re-read on every
	// request so a running monitor's rewrites are picked up immediately.
	DocsPath string
}

// New builds the gin router. The caller owns the listener.
func New(log *zap.Logger, cfg Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(ginzap.Ginzap(log, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(log, true))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/docs.json", serveDocsFile(cfg.DocsPath))
	r.GET("/docs", serveViewer(cfg))

	return r
}

func serveDocsFile(path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			if os.IsNotExist(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "documentation not generated yet"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", data)
	}
}

func serveViewer(cfg Config) gin.HandlerFunc {
	tmpl := template.Must(template.New("viewer").Parse(viewerTemplate))
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.Status(http.StatusOK)
		_ = tmpl.Execute(c.Writer, map[string]string{
			"Title":    cfg.Title,
			"DocsPath": "/docs.json",
		})
	}
}

const viewerTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <style>
    body { font-family: sans-serif; margin: 2rem auto; max-width: 60rem; }
    code { background: #f4f4f4; padding: 0.1rem 0.3rem; }
    .entry { border-bottom: 1px solid #ddd; padding: 0.75rem 0; }
    .doc { color: #444; }
    .usage { color: #06662e; font-size: 0.9rem; }
    .deprecated { color: #a00; font-weight: bold; }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <div id="entries">Loading&hellip;</div>
  <script>
    fetch('{{.DocsPath}}')
      .then(function (resp) {
        if (!resp.ok) { throw new Error('documentation not available'); }
        return resp.json();
      })
      .then(function (doc) {
        var root = document.getElementById('entries');
        root.textContent = '';
        (doc.entries || []).forEach(function (e) {
          var div = document.createElement('div');
          div.className = 'entry';
          var sig = document.createElement('code');
          var params = (e.parameters || []).map(function (p) {
            return p.name ? p.name + ' ' + p.type : p.type;
          }).join(', ');
          sig.textContent = e.package + '.' + e.function + '(' + params + ')';
          div.appendChild(sig);
          if (e.deprecated) {
            var dep = document.createElement('span');
            dep.className = 'deprecated';
            dep.textContent = ' deprecated';
            div.appendChild(dep);
          }
          if (e.doc) {
            var doc = document.createElement('p');
            doc.className = 'doc';
            doc.textContent = e.doc;
            div.appendChild(doc);
          }
          if (e.usage) {
            var usage = document.createElement('p');
            usage.className = 'usage';
            usage.textContent = e.usage.calls + ' calls via ' + e.usage.endpoint;
            div.appendChild(usage);
          }
          root.appendChild(div);
        });
      })
      .catch(function (err) {
        document.getElementById('entries').textContent = err.message;
      });
  </script>
</body>
</html>
`
