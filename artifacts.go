package hawk

// Artifacts is the tuple of fields that feeds the MAC for one Hawk
// message, whatever its type. A field absent from an incoming
// header is represented here as the empty string, matching the
// canonicalization rule that missing fields canonicalize to empty lines.
type Artifacts struct {
	TS       int64  // seconds
	Nonce    string // empty for bewits
	Method   string // uppercased by the time it reaches canonicalization
	Resource string // path, optionally "?query"
	Host     string // lowercased by the time it reaches canonicalization
	Port     int
	Hash     string // base64 payload hash, or empty
	Ext      string
	App      string
	Dlg      string // only meaningful when App is set
	ID       string
	MAC      string
}
