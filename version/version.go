package version

// Version is the piping-server version reported on /version and --version.
const Version = "0.5.0"
