package sqllite

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/foureyes/foureyes/pkg/foureyes"
)

var portBase int32 = 9118 // starting port number (can be anything safe)

func nextPort() int {
	return int(atomic.AddInt32(&portBase, 1))
}

func runTestWithSetup(t *testing.T, testFunc func(t *testing.T, port int)) {
	port := nextPort()
	filename := fmt.Sprintf("foureyes-test-%d.db", port)
	defer os.Remove(filename)
	os.Setenv("HTTP_ADDR", ":"+strconv.Itoa(port))
	os.Setenv("FEYES_DATABASE_TYPE", "SQLLITE")
	os.Setenv("FEYES_DATABASE_SQLLITE_FILE_NAME", filename)
	os.Setenv("FEYES_BOOTSTRAP_ADMIN_USERNAME", "admin")
	os.Setenv("FEYES_BOOTSTRAP_ADMIN_PASSWORD", "admin")

	go func() {
		if err := foureyes.Start(nil); err != nil {
			slog.Error("Server exited with error", "error", err)
		}
	}()
	waitForServer(t, port)
	testFunc(t, port)
}

// waitForServer polls until the HTTP listener answers. Any response,
// including 401, means the app finished booting and migrating.
func waitForServer(t *testing.T, port int) {
	t.Helper()
	client := &http.Client{Timeout: time.Second}
	url := fmt.Sprintf("http://localhost:%d/api/action-types", port)
	for i := 0; i < 50; i++ {
		resp, err := client.Get(url)
		if err == nil {
			resp.Body.Close()
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("Server on port %d did not come up", port)
}
