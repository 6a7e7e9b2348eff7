package labdoc

import "regexp"

// DocType identifies a document format and selects its extraction schema.
type DocType string

// Registered document types.
const (
	DocTypeUnknown         DocType = "unknown"
	DocTypeSDS             DocType = "sds"
	DocTypeTDS             DocType = "tds"
	DocTypeCOA             DocType = "coa"
	DocTypeSigmaAldrichCOA DocType = "sigma-aldrich-coa"
	DocTypeChemipanBenzene DocType = "chemipan-benzene"
	DocTypeChemipan        DocType = "chemipan-generic"
)

// DocTypes returns the registered document types in classification order,
// followed by DocTypeUnknown.
func DocTypes() []DocType {
	return []DocType{
		DocTypeSigmaAldrichCOA,
		DocTypeChemipanBenzene,
		DocTypeChemipan,
		DocTypeCOA,
		DocTypeSDS,
		DocTypeTDS,
		DocTypeUnknown,
	}
}

var docTypeRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Validate returns an error if the document type is not a usable identifier.
// Types outside the registered set are allowed so operators can introduce
// new vendor formats as data.
func (t DocType) Validate() error {
	if t == "" {
		return Errorf(EINVALID, "document type required")
	}
	if !docTypeRe.MatchString(string(t)) {
		return Errorf(EINVALID, "invalid document type %q", t)
	}
	return nil
}

// Classifier maps normalized document text to a document type.
type Classifier interface {
	// Classify returns the first document type whose signature matches.
	// Returns DocTypeUnknown if no signature matches. Never fails.
	Classify(text string) DocType
}
