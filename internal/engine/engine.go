// Package engine implements the scripted dialogue that walks a field
// representative through logging visits.  The engine is a finite-state
// machine: one inbound text message advances a session by exactly one state
// and yields one reply.  Transitions are value transitions: Handle takes the
// current session and returns the replaced one, so the flow is testable
// without a live transport.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"medrep-bot/internal/report"
	"medrep-bot/pkg"
)

// IdentityMode selects how the report-creation flow captures the author's
// name, and with it how report documents are keyed.
type IdentityMode string

const (
	// IdentitySingle asks for the name in one prompt and keys reports by
	// day only.
	IdentitySingle IdentityMode = "single"
	// IdentityTwoStep asks for the first name and then the rest, and keys
	// reports by day plus the derived identity.
	IdentityTwoStep IdentityMode = "two_step"
)

// ParseIdentityMode maps a configuration string onto an IdentityMode.  An
// empty string selects the two-step default.
func ParseIdentityMode(s string) (IdentityMode, error) {
	switch IdentityMode(s) {
	case "":
		return IdentityTwoStep, nil
	case IdentitySingle, IdentityTwoStep:
		return IdentityMode(s), nil
	}
	return "", fmt.Errorf("engine: unknown identity mode %q", s)
}

// Attachment is a document to deliver alongside a reply.
type Attachment struct {
	Name string
	Data []byte
}

// Reply is everything the transport needs to answer one inbound message.
// Buttons are a presentation hint: the engine accepts the same labels as
// literal text whether or not the keyboard was rendered.
type Reply struct {
	Text           string
	Buttons        [][]string
	RemoveKeyboard bool
	Attachment     *Attachment
}

// Engine drives the conversation flow against a report store.
type Engine struct {
	reports report.Store
	mode    IdentityMode
	log     *zap.Logger

	// now is swapped out in tests to pin the report day.
	now func() time.Time
}

// New constructs an Engine.
func New(reports report.Store, mode IdentityMode, log *zap.Logger) *Engine {
	return &Engine{reports: reports, mode: mode, log: log, now: time.Now}
}

// Handle advances the session by one transition.  Store failures never
// escape: they are logged and converted into user-facing text, so one bad
// message cannot take down the session loop.
func (e *Engine) Handle(ctx context.Context, sess pkg.Session, text string) (pkg.Session, Reply) {
	switch text {
	case "/start":
		sess.ClearVisit()
		sess.State = pkg.StateMainMenu
		return sess, Reply{Text: MsgWelcome, Buttons: menuButtons}
	case "/cancel":
		sess.ClearVisit()
		sess.Identity = nil
		sess.State = pkg.StateIdle
		return sess, Reply{Text: MsgCancelled, RemoveKeyboard: true}
	}

	switch sess.State {
	case pkg.StateMainMenu:
		return e.mainMenu(ctx, sess, text)
	case pkg.StateFirstName:
		sess.Identity = &pkg.Identity{UserID: sess.UserID, FirstName: text}
		sess.State = pkg.StateLastName
		return sess, Reply{Text: MsgAskRestName}
	case pkg.StateLastName:
		return e.captureName(ctx, sess, text)
	case pkg.StateVisitType:
		return e.visitType(sess, text)
	case pkg.StateDoctorName:
		sess.SetField(pkg.FieldDoctor, text)
		sess.State = pkg.StateLocation
		if sess.Kind == pkg.VisitMorning {
			return sess, Reply{Text: MsgAskHospital}
		}
		return sess, Reply{Text: MsgAskArea}
	case pkg.StateLocation:
		if sess.Kind == pkg.VisitMorning {
			sess.SetField(pkg.FieldHospital, text)
		} else {
			sess.SetField(pkg.FieldArea, text)
		}
		sess.State = pkg.StateSpecialty
		return sess, Reply{Text: MsgAskSpecialty}
	case pkg.StateSpecialty:
		sess.SetField(pkg.FieldSpecialty, text)
		sess.State = pkg.StateProducts
		return sess, Reply{Text: MsgAskProducts}
	case pkg.StateProducts:
		sess.SetField(pkg.FieldProducts, text)
		sess.State = pkg.StateComment
		return sess, Reply{Text: MsgAskComment, Buttons: skipButtons}
	case pkg.StateComment:
		sess.SetField(pkg.FieldComment, comment(text))
		return e.commit(ctx, sess)
	case pkg.StatePharmacyName:
		sess.SetField(pkg.FieldPharmacy, text)
		sess.State = pkg.StatePharmacyAddress
		return sess, Reply{Text: MsgAskPharmacyAddress}
	case pkg.StatePharmacyAddress:
		sess.SetField(pkg.FieldAddress, text)
		sess.State = pkg.StatePharmacyProducts
		return sess, Reply{Text: MsgAskProducts}
	case pkg.StatePharmacyProducts:
		sess.SetField(pkg.FieldProducts, text)
		sess.State = pkg.StatePharmacyComment
		return sess, Reply{Text: MsgAskComment, Buttons: skipButtons}
	case pkg.StatePharmacyComment:
		sess.SetField(pkg.FieldComment, comment(text))
		return e.commit(ctx, sess)
	default:
		return sess, Reply{Text: MsgUseStart, RemoveKeyboard: true}
	}
}

// comment applies the skip token: skipping stores an empty comment, anything
// else is kept verbatim.
func comment(text string) string {
	if text == BtnSkip {
		return ""
	}
	return text
}

func (e *Engine) mainMenu(ctx context.Context, sess pkg.Session, text string) (pkg.Session, Reply) {
	switch text {
	case BtnNewReport:
		if e.mode == IdentityTwoStep {
			sess.State = pkg.StateFirstName
			return sess, Reply{Text: MsgAskFirstName, RemoveKeyboard: true}
		}
		sess.State = pkg.StateLastName
		return sess, Reply{Text: MsgAskName, RemoveKeyboard: true}
	case BtnLogVisit:
		sess.State = pkg.StateVisitType
		return sess, Reply{Text: MsgAskVisitType, Buttons: visitButtons}
	case BtnSendReport:
		return e.sendReport(ctx, sess)
	}
	return sess, Reply{Text: MsgChooseMenu, Buttons: menuButtons}
}

// captureName finishes identity capture for either mode, creates (or finds)
// the report document and returns to the main menu.
func (e *Engine) captureName(ctx context.Context, sess pkg.Session, text string) (pkg.Session, Reply) {
	if e.mode == IdentityTwoStep && sess.Identity != nil {
		sess.Identity.FullName = strings.TrimSpace(sess.Identity.FirstName + " " + text)
	} else {
		first := text
		if fields := strings.Fields(text); len(fields) > 0 {
			first = fields[0]
		}
		sess.Identity = &pkg.Identity{UserID: sess.UserID, FirstName: first, FullName: text}
	}
	sess.State = pkg.StateMainMenu

	doc, created, err := e.reports.Create(ctx, e.key(sess), sess.Identity.FullName, e.now())
	if err != nil {
		e.log.Error("report create failed", zap.String("session", sess.ID), zap.Error(err))
		return sess, Reply{Text: fmt.Sprintf(MsgSaveFailed, err), Buttons: menuButtons}
	}
	if !created {
		return sess, Reply{Text: fmt.Sprintf(MsgReportExists, doc.Name), Buttons: menuButtons}
	}
	return sess, Reply{Text: fmt.Sprintf(MsgReportCreated, doc.Name, sess.Identity.FullName), Buttons: menuButtons}
}

func (e *Engine) visitType(sess pkg.Session, text string) (pkg.Session, Reply) {
	switch text {
	case BtnBack:
		sess.State = pkg.StateMainMenu
		return sess, Reply{Text: MsgWelcome, Buttons: menuButtons}
	case BtnMorning:
		sess.Kind = pkg.VisitMorning
		sess.State = pkg.StateDoctorName
		return sess, Reply{Text: MsgAskDoctor, RemoveKeyboard: true}
	case BtnAfternoon:
		sess.Kind = pkg.VisitAfternoon
		sess.State = pkg.StateDoctorName
		return sess, Reply{Text: MsgAskDoctor, RemoveKeyboard: true}
	case BtnPharmacy:
		sess.Kind = pkg.VisitPharmacy
		sess.State = pkg.StatePharmacyName
		return sess, Reply{Text: MsgAskPharmacyName, RemoveKeyboard: true}
	}
	return sess, Reply{Text: MsgAskVisitType, Buttons: visitButtons}
}

// commit hands the collected fields to the report store and returns the
// session to the main menu.  A missing document is a guided condition, not a
// failure: the user is pointed back to the create-report flow.
func (e *Engine) commit(ctx context.Context, sess pkg.Session) (pkg.Session, Reply) {
	fields := sess.Fields
	kind := sess.Kind
	sess.ClearVisit()
	sess.State = pkg.StateMainMenu

	if e.mode == IdentityTwoStep && sess.Identity == nil {
		return sess, Reply{Text: MsgNoReport, Buttons: menuButtons}
	}
	doc, err := e.reports.AppendVisit(ctx, e.key(sess), kind, fields)
	if err != nil {
		if errors.Is(err, report.ErrNotFound) {
			return sess, Reply{Text: MsgNoReport, Buttons: menuButtons}
		}
		e.log.Error("visit append failed",
			zap.String("session", sess.ID),
			zap.String("kind", string(kind)),
			zap.Error(err))
		return sess, Reply{Text: fmt.Sprintf(MsgSaveFailed, err), Buttons: menuButtons}
	}
	e.log.Info("visit logged",
		zap.String("session", sess.ID),
		zap.String("kind", string(kind)),
		zap.String("file", doc.Name))
	return sess, Reply{Text: fmt.Sprintf(MsgVisitSaved, doc.Name), Buttons: menuButtons}
}

// sendReport fetches today's document and attaches it to the reply.  The
// session stays in the main menu either way.
func (e *Engine) sendReport(ctx context.Context, sess pkg.Session) (pkg.Session, Reply) {
	if e.mode == IdentityTwoStep && sess.Identity == nil {
		return sess, Reply{Text: MsgNoReport, Buttons: menuButtons}
	}
	key := e.key(sess)
	doc, err := e.reports.Locate(ctx, key)
	if err != nil {
		if errors.Is(err, report.ErrNotFound) {
			return sess, Reply{Text: MsgNoReport, Buttons: menuButtons}
		}
		e.log.Error("report locate failed", zap.String("session", sess.ID), zap.Error(err))
		return sess, Reply{Text: fmt.Sprintf(MsgSendFailed, err), Buttons: menuButtons}
	}
	data, err := e.reports.Read(ctx, key)
	if err != nil {
		e.log.Error("report read failed", zap.String("session", sess.ID), zap.Error(err))
		return sess, Reply{Text: fmt.Sprintf(MsgSendFailed, err), Buttons: menuButtons}
	}
	return sess, Reply{
		Text:       fmt.Sprintf(MsgCaption, e.now().Format("02 January 2006")),
		Buttons:    menuButtons,
		Attachment: &Attachment{Name: doc.Name, Data: data},
	}
}

// key derives the report key for the session: day plus identity in two-step
// mode, bare day otherwise.
func (e *Engine) key(sess pkg.Session) report.Key {
	k := report.Key{Day: e.now()}
	if e.mode == IdentityTwoStep {
		k.Identity = sess.Identity
	}
	return k
}
