package pipeline

import "omniocr/internal/textnorm"

const errorMarker = "ERROR: "

func postprocess(text string) string {
	return textnorm.NormalizePersian(text)
}

func errorContent(err error) string {
	return errorMarker + err.Error()
}

type manifestRow struct {
	Input  string
	Output string
	Status string
	Error  string
}

func mapManifestRow(r manifestRow) []string {
	return []string{r.Input, r.Output, r.Status, r.Error}
}

func manifestHeader() []string {
	return []string{"input", "output", "status", "error"}
}
