// Package snapshot compares values against JSON files kept in testdata
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	callCount = make(map[string]int)
	lock      sync.Mutex
)

// Validate compares the JSON encoding of obj with testdata/<test name>-<call>.json
// A missing snapshot is written instead, as is every snapshot when BJ_UPDATE_SNAPSHOTS=1
func Validate(t *testing.T, obj interface{}, msgAndArgs ...interface{}) {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	lock.Lock()
	call := callCount[name]
	callCount[name] = call + 1
	lock.Unlock()

	filename := filepath.Join("testdata", fmt.Sprintf("%s-%d.json", name, call))

	objJSON, err := json.MarshalIndent(obj, "", "  ")
	require.NoError(t, err)

	expects, err := os.ReadFile(filename)
	if os.IsNotExist(err) || os.Getenv("BJ_UPDATE_SNAPSHOTS") == "1" {
		write(t, filename, objJSON)
		return
	}

	require.NoError(t, err)
	if !assert.Equal(t, strings.Trim(string(expects), "\n"), strings.Trim(string(objJSON), "\n"), msgAndArgs...) {
		t.Logf("snapshot %s", filename)
	}
}

func write(t *testing.T, filename string, b []byte) {
	t.Helper()

	logrus.WithField("filename", filename).Info("writing snapshot file")
	require.NoError(t, os.MkdirAll(filepath.Dir(filename), 0755))
	require.NoError(t, os.WriteFile(filename, append(b, '\n'), 0644))
}
