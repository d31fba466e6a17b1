package models

// Dataset names as they appear in the dashboard JSON document.
const (
	DatasetDeviations           = "deviations"
	DatasetCAPA                 = "capa"
	DatasetCompliance           = "compliance"
	DatasetDeviationsByCategory = "deviationsByCategory"
	DatasetManufacturingSites   = "manufacturingSites"
	DatasetAuditFindings        = "auditFindings"
)

// DashboardData is the master dataset fetched once per dashboard session.
// It is read-only after the fetch completes.
type DashboardData struct {
	Deviations           []Record `firestore:"deviations" json:"deviations"`
	CAPA                 []Record `firestore:"capa" json:"capa"`
	Compliance           []Record `firestore:"compliance" json:"compliance"`
	DeviationsByCategory []Record `firestore:"deviationsByCategory" json:"deviationsByCategory"`
	ManufacturingSites   []Record `firestore:"manufacturingSites" json:"manufacturingSites"`
	AuditFindings        []Record `firestore:"auditFindings" json:"auditFindings"`
}

// Dataset looks up a named array of the document.
func (d *DashboardData) Dataset(name string) ([]Record, bool) {
	if d == nil {
		return nil, false
	}
	switch name {
	case DatasetDeviations:
		return d.Deviations, true
	case DatasetCAPA:
		return d.CAPA, true
	case DatasetCompliance:
		return d.Compliance, true
	case DatasetDeviationsByCategory:
		return d.DeviationsByCategory, true
	case DatasetManufacturingSites:
		return d.ManufacturingSites, true
	case DatasetAuditFindings:
		return d.AuditFindings, true
	}
	return nil, false
}
