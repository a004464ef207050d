package transfer

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func directImportRequest(t *testing.T, userID string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("user_id", userID))
	require.NoError(t, mw.WriteField("direct", "true"))
	fw, err := mw.CreateFormFile("file", "import.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte("28/04/2025;29/04/2025;RIA1234567890\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/transfer/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// A non-privileged direct import must be refused before anything is
// parsed or staged. The nil handles make any store access panic, so a
// clean 403 proves nothing was written.
func TestImportTransfersDirectRequiresPrivilege(t *testing.T) {
	rec := httptest.NewRecorder()
	ImportTransfers(nil, nil)(rec, directImportRequest(t, "AGT042"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestImportTransfersRejectsNonPost(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/transfer/import", nil)
	rec := httptest.NewRecorder()
	ImportTransfers(nil, nil)(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
