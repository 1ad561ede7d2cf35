package cookie

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"msgboard/internal/domain/session"

	"github.com/stretchr/testify/require"
)

func TestCodec_RoundTrip(t *testing.T) {
	req := require.New(t)
	codec := NewCodec("secret", false)
	sess := session.New("user-1", "alice", time.Now(), time.Hour)

	rec := httptest.NewRecorder()
	req.NoError(codec.Write(rec, sess))

	cookies := rec.Result().Cookies()
	req.Len(cookies, 1)
	req.Equal(Name, cookies[0].Name)
	req.True(cookies[0].HttpOnly)
	req.False(cookies[0].Secure)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookies[0])
	sid, uid, ok := codec.Read(r)
	req.True(ok)
	req.Equal(sess.ID, sid)
	req.Equal("user-1", uid)
}

func TestCodec_RejectsTamperedAndExpired(t *testing.T) {
	req := require.New(t)
	codec := NewCodec("secret", true)
	sess := session.New("user-1", "alice", time.Now(), time.Hour)

	value, err := codec.Encode(sess)
	req.NoError(err)

	_, _, err = NewCodec("other-secret", true).Decode(value)
	req.ErrorIs(err, ErrInvalidCookie)

	_, _, err = codec.Decode(value + "x")
	req.ErrorIs(err, ErrInvalidCookie)

	codec.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, _, err = codec.Decode(value)
	req.ErrorIs(err, ErrInvalidCookie)

	_, _, err = codec.Decode("")
	req.ErrorIs(err, ErrInvalidCookie)
}

func TestCodec_AnonymousClears(t *testing.T) {
	req := require.New(t)
	codec := NewCodec("secret", false)

	rec := httptest.NewRecorder()
	req.NoError(codec.Write(rec, session.Anonymous))

	cookies := rec.Result().Cookies()
	req.Len(cookies, 1)
	req.Equal("", cookies[0].Value)
	req.Equal(-1, cookies[0].MaxAge)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, _, ok := codec.Read(r)
	req.False(ok)
}
