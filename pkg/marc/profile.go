package marc

import "strings"

// Profile names the tags and subfield codes a MARC flavour uses for the
// fields this package reads.
type Profile struct {
	Name          string
	ISBNTag       string
	ISBNCode      string
	CancelledCode string
	QualifierCode string
	TitleTag      string
}

var (
	ProfileMARC21  = Profile{Name: "marc21", ISBNTag: "020", ISBNCode: "a", CancelledCode: "z", QualifierCode: "q", TitleTag: "245"}
	ProfileCNMARC  = Profile{Name: "cnmarc", ISBNTag: "010", ISBNCode: "a", CancelledCode: "z", QualifierCode: "b", TitleTag: "200"}
	ProfileUNIMARC = Profile{Name: "unimarc", ISBNTag: "010", ISBNCode: "a", CancelledCode: "z", QualifierCode: "b", TitleTag: "200"}
)

var profiles = map[string]Profile{
	ProfileMARC21.Name:  ProfileMARC21,
	ProfileCNMARC.Name:  ProfileCNMARC,
	ProfileUNIMARC.Name: ProfileUNIMARC,
}

// ProfileByName looks up a profile by its case-insensitive name.
func ProfileByName(name string) (Profile, bool) {
	p, ok := profiles[strings.ToLower(name)]
	return p, ok
}

// DetectProfile picks MARC21 when the record carries a 020 field, UNIMARC
// when it carries 010, and MARC21 otherwise.
func DetectProfile(r *Record) Profile {
	if _, ok := r.Field("020"); ok {
		return ProfileMARC21
	}
	if _, ok := r.Field("010"); ok {
		return ProfileUNIMARC
	}
	return ProfileMARC21
}
