package v1

import (
	"encoding/csv"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	apierrors "github.com/grindlist/grindlist/server/internal/errors"
	"github.com/grindlist/grindlist/server/internal/observability"
	"github.com/grindlist/grindlist/store"
)

type importQuestionsResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

// ImportQuestions handles POST /api/v1/questions/import. The body is a
// multipart form with a CSV file under "file", using the header row
// ID,Title,Question_Link,Difficulty.
func (s *APIV1Service) ImportQuestions(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := userIDFromContext(c)
	if err != nil {
		return s.respondError(c, err)
	}
	rc := observability.NewRequestContext(slog.Default(), "import-questions", userID)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return s.respondError(c, apierrors.InvalidArgument("csv file is required under form field 'file'"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return s.respondError(c, apierrors.InvalidArgument("failed to open uploaded file"))
	}
	defer file.Close()

	creates, err := parseQuestionCSV(file)
	if err != nil {
		return s.respondError(c, err)
	}
	if len(creates) == 0 {
		return s.respondError(c, apierrors.InvalidArgument("csv contains no question rows"))
	}

	if _, err := s.Store.CreateQuestions(ctx, creates); err != nil {
		rc.Error("failed to import questions", err)
		return s.respondError(c, apierrors.StorageFailure("failed to import questions", err))
	}

	rc.Info("imported questions", slog.Int("count", len(creates)))
	return c.JSON(http.StatusOK, &importQuestionsResponse{Success: true, Count: len(creates)})
}

func parseQuestionCSV(r io.Reader) ([]*store.Question, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, apierrors.InvalidArgument("failed to read csv header")
	}

	columns := map[string]int{}
	for i, name := range header {
		columns[name] = i
	}
	for _, required := range []string{"ID", "Title", "Question_Link", "Difficulty"} {
		if _, ok := columns[required]; !ok {
			return nil, apierrors.InvalidArgument("csv header must contain ID, Title, Question_Link and Difficulty")
		}
	}

	creates := []*store.Question{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apierrors.InvalidArgument("malformed csv row")
		}

		difficulty := store.Difficulty(row[columns["Difficulty"]])
		if !difficulty.IsValid() {
			return nil, apierrors.InvalidArgument("difficulty must be Easy, Medium or Hard")
		}
		creates = append(creates, &store.Question{
			ID:         shortuuid.New(),
			QuestionID: row[columns["ID"]],
			Title:      row[columns["Title"]],
			Link:       row[columns["Question_Link"]],
			Difficulty: difficulty,
		})
	}
	return creates, nil
}
