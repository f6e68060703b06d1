package audits

const (
	CourierFilterAll   = "all"
	CourierFilterSPX   = "spx"
	CourierFilterFlash = "flash"
)

const (
	TaskIDPrefix       = "LA-"
	ImportStatusDone   = "Done"
	importNotePrefix   = "Imported from SPX automation on "
	importPreviewLimit = 10
	RecentLimit        = 5
)

const (
	metricAuditsComputed = "audits_computed"
	metricTasksImported  = "spx_records_imported"
)
