package storagepath

import (
	"fmt"
	"path/filepath"
	"strings"
)

type Generator struct {
	Host   string
	Bucket string
}

func (g Generator) GeneratePath(jobID string, leafPath string) string {
	leafPath = strings.TrimPrefix(filepath.ToSlash(leafPath), "/")
	return fmt.Sprintf("%s/%s/%s/%s", g.Host, g.Bucket, jobID, leafPath)
}

func (g Generator) OriginalPath(jobID string, fileName string) string {
	return g.GeneratePath(jobID, "original/"+fileName)
}
