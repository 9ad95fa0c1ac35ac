package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"medrep-bot/internal/report"
	"medrep-bot/pkg"
)

var testDay = time.Date(2024, 2, 5, 10, 0, 0, 0, time.UTC) // a Monday

type appendCall struct {
	key    report.Key
	kind   pkg.VisitKind
	fields map[string]string
}

type createCall struct {
	key    report.Key
	author string
}

// fakeStore records store calls and simulates document existence.
type fakeStore struct {
	exists  bool
	data    []byte
	creates []createCall
	appends []appendCall
}

func (f *fakeStore) Create(_ context.Context, key report.Key, author string, _ time.Time) (*report.Document, bool, error) {
	f.creates = append(f.creates, createCall{key: key, author: author})
	created := !f.exists
	f.exists = true
	return &report.Document{Key: key, Name: key.Filename()}, created, nil
}

func (f *fakeStore) AppendVisit(_ context.Context, key report.Key, kind pkg.VisitKind, fields map[string]string) (*report.Document, error) {
	if !f.exists {
		return nil, report.ErrNotFound
	}
	f.appends = append(f.appends, appendCall{key: key, kind: kind, fields: fields})
	return &report.Document{Key: key, Name: key.Filename()}, nil
}

func (f *fakeStore) Locate(_ context.Context, key report.Key) (*report.Document, error) {
	if !f.exists {
		return nil, report.ErrNotFound
	}
	return &report.Document{Key: key, Name: key.Filename()}, nil
}

func (f *fakeStore) Read(_ context.Context, key report.Key) ([]byte, error) {
	if !f.exists {
		return nil, report.ErrNotFound
	}
	return f.data, nil
}

func newTestEngine(store report.Store, mode IdentityMode) *Engine {
	e := New(store, mode, zap.NewNop())
	e.now = func() time.Time { return testDay }
	return e
}

// walk feeds a sequence of inputs and returns the last reply.
func walk(e *Engine, sess *pkg.Session, inputs ...string) Reply {
	var reply Reply
	for _, in := range inputs {
		*sess, reply = e.Handle(context.Background(), *sess, in)
	}
	return reply
}

func newSession() pkg.Session {
	return pkg.Session{ID: "s1", UserID: "42", State: pkg.StateIdle}
}

func TestMorningFlowCommitsMappedRecord(t *testing.T) {
	store := &fakeStore{exists: true}
	e := newTestEngine(store, IdentitySingle)
	sess := newSession()

	reply := walk(e, &sess,
		"/start", BtnLogVisit, BtnMorning,
		"Dr. Omar", "City Hospital", "Cardio", "X,Y", BtnSkip,
	)

	require.Len(t, store.appends, 1)
	call := store.appends[0]
	assert.Equal(t, pkg.VisitMorning, call.kind)
	assert.Equal(t, map[string]string{
		pkg.FieldDoctor:    "Dr. Omar",
		pkg.FieldHospital:  "City Hospital",
		pkg.FieldSpecialty: "Cardio",
		pkg.FieldProducts:  "X,Y",
		pkg.FieldComment:   "",
	}, call.fields)

	assert.Equal(t, pkg.StateMainMenu, sess.State)
	assert.Nil(t, sess.Fields, "fields must be cleared after commit")
	assert.Empty(t, sess.Kind)
	assert.Contains(t, reply.Text, "Visit logged")
}

func TestAfternoonFlowUsesAreaField(t *testing.T) {
	store := &fakeStore{exists: true}
	e := newTestEngine(store, IdentitySingle)
	sess := newSession()

	walk(e, &sess,
		"/start", BtnLogVisit, BtnAfternoon,
		"Dr. Mona", "Downtown", "Derma", "Z", "busy clinic",
	)

	require.Len(t, store.appends, 1)
	call := store.appends[0]
	assert.Equal(t, pkg.VisitAfternoon, call.kind)
	assert.Equal(t, "Downtown", call.fields[pkg.FieldArea])
	assert.NotContains(t, call.fields, pkg.FieldHospital)
	assert.Equal(t, "busy clinic", call.fields[pkg.FieldComment])
}

func TestPharmacyFlowCommitsMappedRecord(t *testing.T) {
	store := &fakeStore{exists: true}
	e := newTestEngine(store, IdentitySingle)
	sess := newSession()

	walk(e, &sess,
		"/start", BtnLogVisit, BtnPharmacy,
		"El Ezaby", "12 Nile St", "A,B", BtnSkip,
	)

	require.Len(t, store.appends, 1)
	call := store.appends[0]
	assert.Equal(t, pkg.VisitPharmacy, call.kind)
	assert.Equal(t, map[string]string{
		pkg.FieldPharmacy: "El Ezaby",
		pkg.FieldAddress:  "12 Nile St",
		pkg.FieldProducts: "A,B",
		pkg.FieldComment:  "",
	}, call.fields)
}

func TestCommentKeyboardLabelStoredVerbatim(t *testing.T) {
	// Text identical to another keyboard label is still a literal comment.
	store := &fakeStore{exists: true}
	e := newTestEngine(store, IdentitySingle)
	sess := newSession()

	walk(e, &sess,
		"/start", BtnLogVisit, BtnMorning,
		"Dr. Omar", "City Hospital", "Cardio", "X", BtnLogVisit,
	)

	require.Len(t, store.appends, 1)
	assert.Equal(t, BtnLogVisit, store.appends[0].fields[pkg.FieldComment])
}

func TestCancelMidFlowClearsSessionWithoutCommit(t *testing.T) {
	store := &fakeStore{exists: true}
	e := newTestEngine(store, IdentityTwoStep)
	sess := newSession()

	walk(e, &sess,
		"/start", BtnLogVisit, BtnMorning, "Dr. Omar", "City Hospital",
		"/cancel",
	)

	assert.Empty(t, store.appends, "cancel must not touch the report")
	assert.Equal(t, pkg.StateIdle, sess.State)
	assert.Nil(t, sess.Fields)
	assert.Empty(t, sess.Kind)
	assert.Nil(t, sess.Identity)
}

func TestCommitWithoutReportIsGuided(t *testing.T) {
	store := &fakeStore{exists: false}
	e := newTestEngine(store, IdentitySingle)
	sess := newSession()

	reply := walk(e, &sess,
		"/start", BtnLogVisit, BtnMorning,
		"Dr. Omar", "City Hospital", "Cardio", "X", BtnSkip,
	)

	assert.Equal(t, MsgNoReport, reply.Text)
	assert.Equal(t, pkg.StateMainMenu, sess.State)
	assert.Nil(t, sess.Fields)
}

func TestTwoStepIdentityCapture(t *testing.T) {
	store := &fakeStore{}
	e := newTestEngine(store, IdentityTwoStep)
	sess := newSession()

	reply := walk(e, &sess, "/start", BtnNewReport, "Sara", "Ali")

	require.NotNil(t, sess.Identity)
	assert.Equal(t, "Sara", sess.Identity.FirstName)
	assert.Equal(t, "Sara Ali", sess.Identity.FullName)
	assert.Equal(t, "42", sess.Identity.UserID)

	require.Len(t, store.creates, 1)
	assert.Equal(t, "Sara Ali", store.creates[0].author)
	require.NotNil(t, store.creates[0].key.Identity)
	assert.Equal(t, "Sara42_Report_Mon_05-Feb.xlsx", store.creates[0].key.Filename())
	assert.Contains(t, reply.Text, "Report created")
	assert.Equal(t, pkg.StateMainMenu, sess.State)
}

func TestSingleModeKeysByDayOnly(t *testing.T) {
	store := &fakeStore{}
	e := newTestEngine(store, IdentitySingle)
	sess := newSession()

	walk(e, &sess, "/start", BtnNewReport, "Sara Ali")

	require.Len(t, store.creates, 1)
	assert.Nil(t, store.creates[0].key.Identity)
	assert.Equal(t, "Report_Mon_05-Feb.xlsx", store.creates[0].key.Filename())
	assert.Equal(t, "Sara Ali", store.creates[0].author)
}

func TestCreateExistingReportReportsExisting(t *testing.T) {
	store := &fakeStore{exists: true}
	e := newTestEngine(store, IdentitySingle)
	sess := newSession()

	reply := walk(e, &sess, "/start", BtnNewReport, "Sara Ali")

	assert.Contains(t, reply.Text, "already exists")
}

func TestTwoStepCommitWithoutIdentityIsGuided(t *testing.T) {
	// Visits logged before any report-creation flow have no identity to key
	// the document with.
	store := &fakeStore{exists: true}
	e := newTestEngine(store, IdentityTwoStep)
	sess := newSession()

	reply := walk(e, &sess,
		"/start", BtnLogVisit, BtnMorning,
		"Dr. Omar", "City Hospital", "Cardio", "X", BtnSkip,
	)

	assert.Empty(t, store.appends)
	assert.Equal(t, MsgNoReport, reply.Text)
}

func TestUnknownMenuInputReprompts(t *testing.T) {
	store := &fakeStore{}
	e := newTestEngine(store, IdentitySingle)
	sess := newSession()

	reply := walk(e, &sess, "/start", "hello?")

	assert.Equal(t, MsgChooseMenu, reply.Text)
	assert.Equal(t, menuButtons, reply.Buttons)
	assert.Equal(t, pkg.StateMainMenu, sess.State)
}

func TestVisitTypeBackReturnsToMenu(t *testing.T) {
	store := &fakeStore{}
	e := newTestEngine(store, IdentitySingle)
	sess := newSession()

	reply := walk(e, &sess, "/start", BtnLogVisit, BtnBack)

	assert.Equal(t, pkg.StateMainMenu, sess.State)
	assert.Equal(t, menuButtons, reply.Buttons)
}

func TestSendReportAttachesDocument(t *testing.T) {
	store := &fakeStore{exists: true, data: []byte("workbook-bytes")}
	e := newTestEngine(store, IdentitySingle)
	sess := newSession()

	reply := walk(e, &sess, "/start", BtnSendReport)

	require.NotNil(t, reply.Attachment)
	assert.Equal(t, "Report_Mon_05-Feb.xlsx", reply.Attachment.Name)
	assert.Equal(t, []byte("workbook-bytes"), reply.Attachment.Data)
	assert.Equal(t, pkg.StateMainMenu, sess.State)
}

func TestSendReportWithoutDocumentIsGuided(t *testing.T) {
	store := &fakeStore{}
	e := newTestEngine(store, IdentitySingle)
	sess := newSession()

	reply := walk(e, &sess, "/start", BtnSendReport)

	assert.Nil(t, reply.Attachment)
	assert.Equal(t, MsgNoReport, reply.Text)
}

func TestParseIdentityMode(t *testing.T) {
	tests := []struct {
		in      string
		want    IdentityMode
		wantErr bool
	}{
		{in: "", want: IdentityTwoStep},
		{in: "single", want: IdentitySingle},
		{in: "two_step", want: IdentityTwoStep},
		{in: "both", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseIdentityMode(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
