package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tharindu-jay/policyscan/internal/cache"
	"github.com/tharindu-jay/policyscan/internal/export"
	"github.com/tharindu-jay/policyscan/internal/extract"
	"github.com/tharindu-jay/policyscan/internal/record"
	"github.com/tharindu-jay/policyscan/internal/session"
)

type fakeExtractor struct {
	calls int
	raw   record.RawExtraction
	err   error
}

func (f *fakeExtractor) ExtractDocument(context.Context, []byte) (record.RawExtraction, error) {
	f.calls++
	if f.err != nil {
		return record.RawExtraction{}, f.err
	}
	return f.raw, nil
}

func newTestServer(t *testing.T, ext *fakeExtractor) (*Server, *httptest.Server) {
	t.Helper()
	srv := New(
		extract.NewService(ext, cache.NewMemory(), nil),
		export.NewService(nil),
		session.NewManager(nil),
		0,
		nil,
	)
	srv.validatePDF = func(data []byte) error {
		if !bytes.HasPrefix(data, []byte("%PDF")) {
			return fmt.Errorf("not a pdf")
		}
		return nil
	}
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return srv, ts
}

func uploadPDF(t *testing.T, url string, name string, content []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("document", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(url+"/api/documents", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func sampleExtractor() *fakeExtractor {
	ext := &fakeExtractor{}
	ext.raw.PolicyVehicle.PolicyNumber = "POL-77"
	ext.raw.Vehicle.MarketValue = "4500000"
	ext.raw.Vehicle.YearOfMake = "2018-01-05"
	ext.raw.Proposer.ProposerSignature = "~~~"
	return ext
}

func TestProcessDocumentHappyPath(t *testing.T) {
	ext := sampleExtractor()
	_, ts := newTestServer(t, ext)

	resp := uploadPDF(t, ts.URL, "proposal.pdf", []byte("%PDF-1.4 body"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rec record.FlatRecord
	decodeJSON(t, resp, &rec)
	assert.Equal(t, "POL-77", rec.PolicyNumber)
	assert.Equal(t, "4,500,000", rec.MarketValue)
	assert.Equal(t, "05/01/2018", rec.YearOfMake)
	assert.Equal(t, "available", rec.Proposer.ProposerSignature)

	// same bytes again: served from the content-hash cache
	resp = uploadPDF(t, ts.URL, "proposal.pdf", []byte("%PDF-1.4 body"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()
	assert.Equal(t, 1, ext.calls)
}

func TestProcessDocumentRejectsNonPDF(t *testing.T) {
	ext := sampleExtractor()
	_, ts := newTestServer(t, ext)

	resp := uploadPDF(t, ts.URL, "junk.pdf", []byte("not a pdf"))
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var ep errorPayload
	decodeJSON(t, resp, &ep)
	assert.Equal(t, StageProcessing, ep.Stage)
	assert.NotEmpty(t, ep.Error)
	assert.Equal(t, 0, ext.calls)
}

func TestProcessDocumentFailureKeepsSession(t *testing.T) {
	ext := sampleExtractor()
	_, ts := newTestServer(t, ext)

	resp := uploadPDF(t, ts.URL, "proposal.pdf", []byte("%PDF-1.4 body"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	ext.err = &extract.Error{Kind: extract.EmptyResponse}
	resp = uploadPDF(t, ts.URL, "next.pdf", []byte("%PDF-1.4 other"))
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var ep errorPayload
	decodeJSON(t, resp, &ep)
	assert.Equal(t, StageProcessing, ep.Stage)

	// the earlier record is still reviewable
	getResp, err := http.Get(ts.URL + "/api/record")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	var rec record.FlatRecord
	decodeJSON(t, getResp, &rec)
	assert.Equal(t, "POL-77", rec.PolicyNumber)
}

func TestPatchRecordAndExport(t *testing.T) {
	ext := sampleExtractor()
	_, ts := newTestServer(t, ext)

	resp := uploadPDF(t, ts.URL, "proposal.pdf", []byte("%PDF-1.4 body"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	patch := func(body string) *http.Response {
		req, err := http.NewRequest(http.MethodPatch, ts.URL+"/api/record", strings.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		r, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		return r
	}

	resp = patch(`{"Full_Name": "A. B. Perera", "Total_Value_Insured": "5000000"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rec record.FlatRecord
	decodeJSON(t, resp, &rec)
	assert.Equal(t, "A. B. Perera", rec.FullName)

	resp = patch(`{"Not_A_Field": "x"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()

	expResp, err := http.Post(ts.URL+"/api/export", "application/json", nil)
	require.NoError(t, err)
	defer func() { _ = expResp.Body.Close() }()
	require.Equal(t, http.StatusOK, expResp.StatusCode)
	assert.Contains(t, expResp.Header.Get("Content-Disposition"), "insurance_details.xlsx")

	var data bytes.Buffer
	_, err = data.ReadFrom(expResp.Body)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	v, err := f.GetCellValue(export.SheetPolicyVehicle, "B2")
	require.NoError(t, err)
	assert.Equal(t, "A. B. Perera", v)
	// edited amount is reformatted at export time
	v, err = f.GetCellValue(export.SheetVehicleInfo, "N2")
	require.NoError(t, err)
	assert.Equal(t, "5,000,000", v)
}

func TestCoverEndpoints(t *testing.T) {
	ext := sampleExtractor()
	_, ts := newTestServer(t, ext)

	resp := uploadPDF(t, ts.URL, "proposal.pdf", []byte("%PDF-1.4 body"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err := http.Post(ts.URL+"/api/record/covers", "application/json",
		strings.NewReader(`{"Cover Type": "Windscreen", "Amount": "50000"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var covers []record.CoverEntry
	decodeJSON(t, resp, &covers)
	require.Len(t, covers, 1)
	assert.Equal(t, "Windscreen", covers[0].CoverType)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/record/covers/0", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	covers = nil
	decodeJSON(t, resp, &covers)
	assert.Empty(t, covers)

	req, err = http.NewRequest(http.MethodDelete, ts.URL+"/api/record/covers/7", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestSessionEndpoints(t *testing.T) {
	ext := sampleExtractor()
	_, ts := newTestServer(t, ext)

	resp, err := http.Get(ts.URL + "/api/session")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()

	resp = uploadPDF(t, ts.URL, "proposal.pdf", []byte("%PDF-1.4 body"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = http.Post(ts.URL+"/api/session/step", "application/json", strings.NewReader(`{"step": 3}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = http.Get(ts.URL + "/api/session")
	require.NoError(t, err)
	var sess struct {
		FileName string `json:"file_name"`
		Step     int    `json:"step"`
	}
	decodeJSON(t, resp, &sess)
	assert.Equal(t, "proposal.pdf", sess.FileName)
	assert.Equal(t, 3, sess.Step)
}
