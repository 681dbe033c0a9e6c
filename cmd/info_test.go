package cmd

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/magiconair/properties/assert"
)

func TestInfoCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path != "/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, `{"cluster_name":"kb","version":{"number":"7.10.2"}}`)
	}))
	defer srv.Close()

	defer func() {
		CredentialSource, Host, ConfigPath = "file", "", ""
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	}()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"info", "--credentials", "none", "--host", srv.URL, "--config", ""})
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, lines[0], "Elasticsearch client from none credentials")
	assert.Equal(t, strings.Contains(out.String(), `"cluster_name": "kb"`), true)
	assert.Equal(t, lines[len(lines)-1], "Elapsed time: 0 seconds")
}
