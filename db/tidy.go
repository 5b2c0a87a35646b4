package db

import (
	"time"

	"adpulse/models"

	sb "github.com/huandu/go-sqlbuilder"
	log "github.com/sirupsen/logrus"
)

// Tidy removes articles published more than retentionDays ago. This is an
// operator action run from the CLI; the ingestion path itself never deletes.
func Tidy(database string, retentionDays int) (int64, error) {
	db, err := connection(database)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	cutoff := time.Now().AddDate(0, 0, -retentionDays).UTC().Format(models.TimeLayout)

	deleteArticles := sb.SQLite.NewDeleteBuilder()
	query, args := deleteArticles.DeleteFrom("articles").Where(deleteArticles.LessThan("published_at", cutoff)).Build()

	log.WithFields(log.Fields{
		"cutoff": cutoff,
	}).Info("Tidying database")

	res, err := db.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
