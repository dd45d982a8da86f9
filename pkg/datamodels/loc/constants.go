// Package loc provides convenience constructors for preservation records
// that follow the Library of Congress controlled vocabularies published at
// https://id.loc.gov/vocabulary/preservation.html. Records are free to use
// values outside these subsets.
package loc

const (
	EventTypeAggregation              string = "aggregation"
	EventTypeDeletion                 string = "deletion"
	EventTypeFixityCheck              string = "fixity check"
	EventTypeIngestion                string = "ingestion"
	EventTypeMessageDigestCalculation string = "message digest calculation"
	EventTypeMigration                string = "migration"
	EventTypeReplication              string = "replication"
	EventTypeValidation               string = "validation"
	EventTypeVirusCheck               string = "virus check"
)

const (
	AgentTypeHardware     string = "hardware"
	AgentTypeOrganization string = "organization"
	AgentTypePerson       string = "person"
	AgentTypeSoftware     string = "software"
)

const (
	ObjectCategoryBitstream          string = "bitstream"
	ObjectCategoryFile               string = "file"
	ObjectCategoryIntellectualEntity string = "intellectualEntity"
	ObjectCategoryRepresentation     string = "representation"
)

const (
	RightsBasisCopyright string = "copyright"
	RightsBasisLicense   string = "license"
	RightsBasisStatute   string = "statute"
)

const (
	OutcomeFail    string = "fail"
	OutcomeSuccess string = "success"
	OutcomeWarning string = "warning"
)
