package generator

import (
	"context"

	"github.com/goliatone/go-folio/internal/sitedata"
)

const (
	projectsDataPath        = "data/projects.json"
	recommendationsDataPath = "data/recommendations.json"
)

// ProjectsData groups the project listings of the about and projects pages.
type ProjectsData struct {
	About    []sitedata.Project `json:"about"`
	Finished []sitedata.Project `json:"finished"`
	WIP      []sitedata.Project `json:"wip"`
}

func (s *service) writeSiteData(ctx context.Context, writer *artifactWriter) (int, error) {
	documents := []struct {
		path string
		data any
	}{
		{
			path: projectsDataPath,
			data: ProjectsData{
				About:    sitedata.AboutProjects(),
				Finished: sitedata.FinishedProjects(),
				WIP:      sitedata.WIPProjects(),
			},
		},
		{path: recommendationsDataPath, data: sitedata.Recommendations()},
	}

	written := 0
	for _, doc := range documents {
		payload, err := marshalJSON(doc.data)
		if err != nil {
			return written, err
		}
		if err := writer.write(ctx, writeFileRequest{
			Path:        joinOutputPath(s.cfg.OutputDir, doc.path),
			Content:     payload,
			Category:    categoryData,
			ContentType: jsonContentType,
		}); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}
