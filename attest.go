package attest // import "kastelo.dev/attest"

// Source identifies which tracking export a table came from.
type Source string

const (
	SourceAPS Source = "APS"
	SourceCIO Source = "CIO"
)

// Table is a raw tabular input: a header row and data rows of equal width.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Column returns the index of the named column, or -1.
func (t Table) Column(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Field is the name of a column in the attestation schema.
type Field string

const (
	FieldAIT            Field = "AIT #"
	FieldAITName        Field = "AIT Name"
	FieldAssessment     Field = "Assessment Name"
	FieldTridentStatus  Field = "Trident status"
	FieldReviewStatus   Field = "CPPM Review Status"
	FieldDueDate        Field = "Due Date"
	FieldDelegate       Field = "PECM_Delegate"
	FieldAppOwner       Field = "Application Owner"
	FieldAPSAccountable Field = "APS Accountable"
	FieldSupportOwner   Field = "Support Owner"
	FieldAPSSLT         Field = "APS SLT"
	FieldTechExec       Field = "Tech Exec"
	FieldCIOExec        Field = "CIO Exec"
)

// canonicalFields is the attestation schema in output order.
var canonicalFields = []Field{
	FieldAIT,
	FieldAITName,
	FieldAssessment,
	FieldTridentStatus,
	FieldReviewStatus,
	FieldDueDate,
	FieldDelegate,
	FieldAppOwner,
	FieldAPSAccountable,
	FieldSupportOwner,
	FieldAPSSLT,
	FieldTechExec,
	FieldCIOExec,
}

// placeholderFields are present in every normalized table but never
// populated from the source export.
var placeholderFields = []Field{
	FieldReviewStatus,
	FieldDelegate,
	FieldSupportOwner,
	FieldAPSSLT,
	FieldTechExec,
	FieldCIOExec,
}

type Record struct {
	AIT            string
	AITName        string
	Assessment     string
	TridentStatus  string
	ReviewStatus   string
	DueDate        string
	Delegate       string
	AppOwner       string
	APSAccountable string
	SupportOwner   string
	APSSLT         string
	TechExec       string
	CIOExec        string
}

func (r *Record) ref(f Field) *string {
	switch f {
	case FieldAIT:
		return &r.AIT
	case FieldAITName:
		return &r.AITName
	case FieldAssessment:
		return &r.Assessment
	case FieldTridentStatus:
		return &r.TridentStatus
	case FieldReviewStatus:
		return &r.ReviewStatus
	case FieldDueDate:
		return &r.DueDate
	case FieldDelegate:
		return &r.Delegate
	case FieldAppOwner:
		return &r.AppOwner
	case FieldAPSAccountable:
		return &r.APSAccountable
	case FieldSupportOwner:
		return &r.SupportOwner
	case FieldAPSSLT:
		return &r.APSSLT
	case FieldTechExec:
		return &r.TechExec
	case FieldCIOExec:
		return &r.CIOExec
	default:
		return nil
	}
}

// Get returns the value of the field, or "" for an unknown field.
func (r Record) Get(f Field) string {
	if p := r.ref(f); p != nil {
		return *p
	}
	return ""
}

// Set assigns the value of the field. Unknown fields are ignored.
func (r *Record) Set(f Field, v string) {
	if p := r.ref(f); p != nil {
		*p = v
	}
}

// AttestationTable is a source table normalized onto the attestation
// schema. Fields lists the columns in output order.
type AttestationTable struct {
	Source  Source
	Fields  []Field
	Records []Record
}

// Rows returns the records as string rows in Fields order.
func (t *AttestationTable) Rows() [][]string {
	rows := make([][]string, len(t.Records))
	for i, rec := range t.Records {
		row := make([]string, len(t.Fields))
		for j, f := range t.Fields {
			row[j] = rec.Get(f)
		}
		rows[i] = row
	}
	return rows
}

// Header returns the field names as strings.
func (t *AttestationTable) Header() []string {
	hdr := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		hdr[i] = string(f)
	}
	return hdr
}

// Empty returns the number of records where the field is blank.
func (t *AttestationTable) Empty(f Field) int {
	n := 0
	for _, rec := range t.Records {
		if rec.Get(f) == "" {
			n++
		}
	}
	return n
}

func (t *AttestationTable) clone() *AttestationTable {
	cpy := &AttestationTable{
		Source:  t.Source,
		Fields:  append([]Field(nil), t.Fields...),
		Records: make([]Record, len(t.Records)),
	}
	copy(cpy.Records, t.Records)
	return cpy
}
