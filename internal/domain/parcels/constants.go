package parcels

const (
	StatusReported = "reported"
	RecentLimit    = 5
)
