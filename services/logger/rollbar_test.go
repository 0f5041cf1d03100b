package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigimobiliare/sig/core"
	"github.com/sigimobiliare/sig/core/user"
)

func newBufferLogger(t *testing.T, debug bool) (*RollbarLogger, *bytes.Buffer) {
	t.Helper()
	conf := core.NewTestConfig()
	conf.Debug = debug
	buf := new(bytes.Buffer)
	l := NewRollbarLogger(log.New(buf, "", 0), conf)
	l.Enable(false)
	return l, buf
}

func TestRollbarLogger_levels(t *testing.T) {
	l, buf := newBufferLogger(t, true)

	l.Debug("cache miss", map[string]interface{}{"key": "listings"})
	l.Info("listings seeded", map[string]interface{}{"count": 6, "engine": "memory"})
	l.Warn("slow query")
	l.Error("sending mail", errors.New("dial tcp: timeout"))

	assert.Equal(t, "DEBUG cache miss key=listings\n"+
		"INFO listings seeded count=6 engine=memory\n"+
		"WARN slow query\n"+
		"ERROR sending mail error=\"dial tcp: timeout\"\n", buf.String())
}

func TestRollbarLogger_debugSuppressed(t *testing.T) {
	l, buf := newBufferLogger(t, false)

	l.Debug("cache miss")
	assert.Empty(t, buf.String())

	l.Info("ready")
	assert.Equal(t, "INFO ready\n", buf.String())
}

func TestRollbarLogger_userIsRedacted(t *testing.T) {
	l, buf := newBufferLogger(t, true)

	admin := user.User{Email: "admin@sig-imobiliare.ro"}
	l.Info("listing deleted", admin, map[string]interface{}{"id": "studio-marasti"}, user.User{Email: "other@test.ro"})

	out := buf.String()
	assert.Equal(t, "INFO listing deleted id=studio-marasti user="+core.RedactEmail(admin.Email)+"\n", out)
	assert.NotContains(t, out, "admin@sig-imobiliare.ro")
	assert.NotContains(t, out, "other")
}

func TestRollbarLogger_Fatal(t *testing.T) {
	l, buf := newBufferLogger(t, false)

	var code int
	orig := exitFunc
	exitFunc = func(c int) { code = c }
	defer func() { exitFunc = orig }()

	l.Fatal("setting up database", errors.New("no reachable servers"))
	require.Equal(t, 1, code)
	assert.Equal(t, "FATAL setting up database error=\"no reachable servers\"\n", buf.String())
}

func TestSplitUser(t *testing.T) {
	usr, extras := splitUser([]interface{}{"a", user.User{Email: "ana@test.ro"}, 1})
	require.NotNil(t, usr)
	assert.Equal(t, "ana@test.ro", usr.Email)
	assert.Equal(t, []interface{}{"a", 1}, extras)

	usr, extras = splitUser(nil)
	assert.Nil(t, usr)
	assert.Empty(t, extras)
}
