package analytics

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewDDLs_InlineThresholds(t *testing.T) {
	ddls := ViewDDLs(Config{RepeatThreshold: 7, ChurnMonths: 6, Quintiles: 4, TopN: 20})
	require.Len(t, ddls, len(Views()))

	byName := map[string]string{}
	for _, d := range ddls {
		assert.True(t, strings.HasPrefix(d.Name, "v_"), d.Name)
		byName[d.Name] = d.SQL
	}
	assert.Contains(t, byName["v_repeat_purchase_rate"], "n > 7")
	assert.Contains(t, byName["v_churn_count"], "INTERVAL '6 months'")
	assert.Contains(t, byName["v_rfm_scores"], "NTILE(4)")
	assert.Contains(t, byName["v_pareto"], "spend_rank <= 20")
	assert.Contains(t, byName["v_pareto"], "RANK() OVER (ORDER BY spend_cents DESC)")
	assert.Contains(t, byName["v_product_performance"], "LIMIT 20")
}

func TestInstallViews(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	for _, d := range ViewDDLs(DefaultConfig()) {
		mock.ExpectExec(regexp.QuoteMeta("CREATE OR REPLACE VIEW " + d.Name + " AS")).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectCommit()

	require.NoError(t, InstallViews(context.Background(), db, DefaultConfig()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInstallViews_RollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ddls := ViewDDLs(DefaultConfig())
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE OR REPLACE VIEW " + ddls[0].Name)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE OR REPLACE VIEW " + ddls[1].Name)).
		WillReturnError(errors.New(`relation "orders" does not exist`))
	mock.ExpectRollback()

	err = InstallViews(context.Background(), db, DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), ddls[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDropViews_ReverseOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ddls := ViewDDLs(Config{})
	for i := len(ddls) - 1; i >= 0; i-- {
		mock.ExpectExec(regexp.QuoteMeta("DROP VIEW IF EXISTS " + ddls[i].Name)).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, DropViews(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
