package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	. "github.com/sigimobiliare/sig/apps/api/echo"
	"github.com/sigimobiliare/sig/core"
	"github.com/sigimobiliare/sig/core/cache"
	"github.com/sigimobiliare/sig/core/inquiry"
	"github.com/sigimobiliare/sig/core/listing"
	"github.com/sigimobiliare/sig/core/user"
	"github.com/sigimobiliare/sig/services/email"
	"github.com/sigimobiliare/sig/services/logger"
	"github.com/sigimobiliare/sig/storage/database/inmem"
	"github.com/sigimobiliare/sig/tests"
)

const testPassword = "s3cret-Pass!"

type testApp struct {
	Server
	conf    *core.Config
	db      *inmemdb.DB
	mailSvc *emailsvc.ConsoleServiceMock
	usrRepo user.Repository
}

func setup(t *testing.T) *testApp {
	db := inmemdb.Open()
	return setupWithRepos(t, inmemdb.NewListingRepository(db), inmemdb.NewUserRepository(db), db)
}

func setupWithRepos(t *testing.T, listingRepo listing.Repository, usrRepo user.Repository, db *inmemdb.DB) *testApp {
	t.Helper()
	conf := core.NewTestConfig()
	logger := logsvc.NewTestLogger(conf)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc := user.NewServiceFromConfig(usrRepo, conf)

	// set up server
	server := NewServer(
		&Deps{
			Conf:           conf,
			Logger:         logger,
			ListingSvc:     listing.NewService(listingRepo, cache.New(conf.Cache.ListingsTTL), logger),
			UserSvc:        usrSvc,
			InquirySvc:     inquiry.NewService(mailSvc, conf, logger),
			Validate:       validate,
			Translator:     translator,
			DisableReqLogs: true,
		},
	)
	return &testApp{Server: server, conf: conf, db: db, mailSvc: mailSvc, usrRepo: usrRepo}
}

func (app *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func createUser(t *testing.T, app *testApp, email string) user.User {
	return testutil.CreateUser(t, app.usrRepo, email, testPassword)
}

type httpErr struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) *http.Request {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "sig_session", Value: token})
	}
	return req
}

func newRequest(method, path string, data ...[]byte) *http.Request {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, app *testApp, usr user.User, role string) string {
	token, err := GenerateToken(GetUserClaims(usr, role, app.conf), app.conf.SecretKey)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode() failed: %v; body %s", err, rec.Body.String())
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	assert.Equal(t, tt.wantCode, rec.Code, "code")
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app *testApp, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			rec := app.do(newAuthRequest(method, tt.path, tt.token, tt.body))
			checkCodeAndData(t, tt, rec)
		})
	}
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
