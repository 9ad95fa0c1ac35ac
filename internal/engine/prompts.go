package engine

// prompts.go defines the button labels and user-facing texts of the dialogue.
// Keeping them in one file makes the scripted flow easy to tweak without
// touching the state machine.  Button labels double as the literal inputs the
// engine matches on, so a user typing the text by hand works without the
// keyboard UI.

const (
	BtnNewReport  = "📊 New report"
	BtnLogVisit   = "✅ Log a visit"
	BtnSendReport = "📤 Send my report"

	BtnMorning   = "🌅 A.M visit"
	BtnAfternoon = "🌆 P.M visit"
	BtnPharmacy  = "💊 Pharmacy visit"
	BtnBack      = "🔙 Back"

	// BtnSkip is the skip token for optional comment fields: pressing (or
	// typing) it stores an empty comment.  Any other input is stored
	// verbatim, including text matching other keyboard labels.
	BtnSkip = "⏭️ Skip"
)

const (
	MsgWelcome    = "🤖 Medical Rep Bot\n\nWelcome! Pick an option from the menu:"
	MsgChooseMenu = "Please pick an option from the menu:"
	MsgUseStart   = "Use /start to open the main menu."
	MsgCancelled  = "Cancelled. Use /start to begin again."

	MsgAskFirstName = "👤 Enter your first name:"
	MsgAskRestName  = "Now the rest of your name:"
	MsgAskName      = "👤 Enter your name (it will appear on the report):"

	MsgReportCreated = "✅ Report created!\n\n📄 File: %s\n👤 Name: %s"
	MsgReportExists  = "ℹ️ Today's report already exists.\n\n📄 File: %s"

	MsgAskVisitType       = "Choose the visit type:"
	MsgAskDoctor          = "👤 Enter the doctor's name:"
	MsgAskHospital        = "🏥 Enter the hospital:"
	MsgAskArea            = "🏙 Enter the area:"
	MsgAskSpecialty       = "🩺 Enter the doctor's specialty:"
	MsgAskProducts        = "💊 Enter the product names (comma separated):"
	MsgAskComment         = "💬 Enter a comment (or press Skip):"
	MsgAskPharmacyName    = "🏪 Enter the pharmacy name:"
	MsgAskPharmacyAddress = "📍 Enter the pharmacy address:"

	MsgVisitSaved = "✅ Visit logged!\n\n📄 Saved to: %s"
	MsgNoReport   = "⚠️ No report for today yet.\n\nCreate a new report from the main menu first."
	MsgSaveFailed = "❌ Could not save the visit: %v"
	MsgSendFailed = "❌ Could not send the report: %v"
	MsgCaption    = "📊 Daily report\n\n📅 %s"
)

// Keyboard layouts, one label per row like the house bot.
var (
	menuButtons  = [][]string{{BtnNewReport}, {BtnLogVisit}, {BtnSendReport}}
	visitButtons = [][]string{{BtnMorning}, {BtnAfternoon}, {BtnPharmacy}, {BtnBack}}
	skipButtons  = [][]string{{BtnSkip}}
)
