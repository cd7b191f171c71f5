package domain

// SourceRow is a single participant comment as delivered by the
// column-mapping collaborator. Only id and comment are mandatory.
type SourceRow struct {
	ID        string `json:"id" csv:"id"`
	Comment   string `json:"comment" csv:"comment"`
	Interview string `json:"interview,omitempty" csv:"interview"`
	Video     string `json:"video,omitempty" csv:"video"`
	Timestamp string `json:"timestamp,omitempty" csv:"timestamp"`
}

// Comment is the wire form of a row sent to the processing service.
type Comment struct {
	ID      string `json:"id"`
	Speaker string `json:"speaker,omitempty"`
	Text    string `json:"text"`
}

// CommentsFromRows converts input rows into processing-service comments.
func CommentsFromRows(rows []SourceRow) []Comment {
	comments := make([]Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, Comment{
			ID:      row.ID,
			Speaker: row.Interview,
			Text:    row.Comment,
		})
	}
	return comments
}
