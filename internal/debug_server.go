package internal

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultPrefix = "msg:"

var inspectTemplate = template.Must(template.New("inspect").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>puppet-lab inspect</title></head>
<body>
<form method="get"><input name="prefix" value="{{.Prefix}}"><button>Scan</button></form>
<p>{{len .Items}} keys</p>
<table>
<tr><th>Key</th><th>Kind</th><th>Conversation</th><th>Time</th><th>Entity</th><th>Detail</th></tr>
{{range .Items}}<tr><td>{{.Key}}</td><td>{{.Kind}}</td><td>{{.Conversation}}</td><td>{{.Timestamp}}</td><td>{{.EntityID}}</td><td>{{.Detail}}</td></tr>
{{end}}</table>
</body></html>`))

type InspectRow struct {
	Key          string
	Kind         string
	Timestamp    string
	EntityID     string
	Conversation string
	Detail       string
}

type PageData struct {
	Prefix string
	Items  []InspectRow
}

// NewDebugHandler serves /metrics from gatherer and /inspect, an HTML dump of the
// badger keys under ?prefix= (default "msg:").
func NewDebugHandler(db *badger.DB, gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/inspect", func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = defaultPrefix
		}
		data := PageData{Prefix: prefix}
		err := db.View(func(txn *badger.Txn) error {
			options := badger.DefaultIteratorOptions
			options.PrefetchValues = false
			it := txn.NewIterator(options)
			defer it.Close()
			for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
				item := it.Item()
				data.Items = append(data.Items, DefaultMapper(string(item.Key()), item.ValueSize()))
			}
			return nil
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = inspectTemplate.Execute(w, data)
	})
	return mux
}

// DefaultMapper splits the repository key layouts into columns.
func DefaultMapper(key string, valueSize int64) InspectRow {
	row := InspectRow{
		Key:       key,
		Kind:      "RAW",
		Timestamp: "--:--:--",
		EntityID:  "--------",
		Detail:    "Size: " + strconv.FormatInt(valueSize, 10) + " bytes",
	}
	parts := strings.Split(key, ":")
	switch parts[0] {
	case "msg":
		if len(parts) < 4 {
			return row
		}
		row.Kind = "MESSAGE"
		row.Conversation = parts[1]
		if tsNano, err := strconv.ParseInt(parts[2], 10, 64); err == nil {
			row.Timestamp = time.Unix(0, tsNano).UTC().Format("15:04:05")
		}
		// Telegram message ids contain ':'
		row.EntityID = strings.Join(parts[3:], ":")
	case "msgid":
		row.Kind = "INDEX"
		row.EntityID = strings.Join(parts[1:], ":")
	case "contact", "room":
		row.Kind = strings.ToUpper(parts[0])
		row.EntityID = strings.Join(parts[1:], ":")
	}
	return row
}
