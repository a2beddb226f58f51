package build_info

var (
	// Set during building with ldflags
	Version = "dev"
)
