package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.jpg", "photo.jpg"},
		{"my photo (1).JPG", "my_photo__1_.JPG"},
		{"../../etc/passwd", "passwd"},
		{"..\\windows\\evil.png", "evil.png"},
		{".hidden", "_hidden"},
		{"zdjęcie.png", "zdj_cie.png"},
		{"", "_"},
		{"a-b_c.d", "a-b_c.d"},
	}
	for _, tt := range tests {
		if got := SanitizeName(tt.in); got != tt.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsImageFile(t *testing.T) {
	tests := map[string]bool{
		"a.jpg":      true,
		"B.JPEG":     true,
		"c.png":      true,
		"d.webp":     true,
		"notes.txt":  false,
		"no_ext":     false,
		"archive.gz": false,
	}
	for name, want := range tests {
		if got := IsImageFile(name); got != want {
			t.Errorf("IsImageFile(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestCreateThumb(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 200, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			src.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	in := bytes.Buffer{}
	if err := png.Encode(&in, src); err != nil {
		t.Fatal(err)
	}
	out := bytes.Buffer{}
	result, err := CreateThumb(50, 90, &in, &out)
	if err != nil {
		t.Fatalf("CreateThumb() error = %v", err)
	}
	if result.NewX != 50 || result.NewY != 25 || result.OldX != 200 || result.OldY != 100 {
		t.Errorf("CreateThumb() = %+v", result)
	}
	if result.ThumbSize != int64(out.Len()) {
		t.Errorf("ThumbSize = %d, written %d", result.ThumbSize, out.Len())
	}
	if _, err = jpeg.Decode(&out); err != nil {
		t.Errorf("thumbnail is not a JPEG: %v", err)
	}
	if _, err = CreateThumb(50, 90, bytes.NewReader([]byte("nope")), &out); err == nil {
		t.Error("CreateThumb() with invalid input should fail")
	}
}

func TestCacheControl(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		seconds int
		want    string
	}{
		{CacheNoCache, "no-cache"},
		{3600, "private, max-age=3600"},
		{CacheCustom, ""},
	}
	for _, tt := range tests {
		r := gin.New()
		r.GET("/", CacheControl(tt.seconds), func(c *gin.Context) { c.Status(http.StatusOK) })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if got := w.Header().Get("cache-control"); got != tt.want {
			t.Errorf("CacheControl(%d) header = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, hook := test.NewNullLogger()
	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	tests := []struct {
		path  string
		level logrus.Level
	}{
		{"/ok", logrus.InfoLevel},
		{"/bad", logrus.WarnLevel},
		{"/boom", logrus.ErrorLevel},
	}
	for _, tt := range tests {
		hook.Reset()
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))
		entry := hook.LastEntry()
		if entry == nil {
			t.Fatalf("%s: nothing logged", tt.path)
		}
		if entry.Level != tt.level {
			t.Errorf("%s: level = %v, want %v", tt.path, entry.Level, tt.level)
		}
		if entry.Data["path"] != tt.path {
			t.Errorf("%s: path field = %v", tt.path, entry.Data["path"])
		}
	}
}

func TestErrorLogMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	r := gin.New()
	r.Use(ErrorLogMiddleware(log))
	r.GET("/bad", func(c *gin.Context) { c.JSON(http.StatusBadRequest, gin.H{"error": "nope"}) })
	r.GET("/ok", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{}) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	if len(hook.Entries) != 0 {
		t.Errorf("successful response was logged")
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bad", nil))
	if len(hook.Entries) != 1 || hook.LastEntry().Data["status"] != http.StatusBadRequest {
		t.Errorf("error response not logged: %+v", hook.Entries)
	}
}
