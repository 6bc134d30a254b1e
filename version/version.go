package version

// Version is set at build time with
// -ldflags "-X github.com/Danpythonman/llm-tokenizer/version.Version=v1.2.3".
var Version string = "0.0.0"
