package notificationrepo_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/notificationrepo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type NotificationRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *notificationrepo.GormNotificationRepository
}

func (suite *NotificationRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&notificationrepo.NotificationDTO{}))
}

func (suite *NotificationRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE notifications").Error)
	suite.repository = notificationrepo.NewGormNotificationRepository(suite.db)
}

func (suite *NotificationRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *NotificationRepositoryIntegrationTestSuite) TestAddAndGet_RoundTrip() {
	ctx := context.Background()

	n := suite.createNotification(kernel.NewUUID(), "Order confirmed", time.Now().UTC())
	suite.Require().NoError(suite.repository.Add(ctx, n))

	retrieved, err := suite.repository.Get(ctx, n.ID())
	suite.Require().NoError(err)

	suite.Equal(n.ID(), retrieved.ID())
	suite.Equal(n.RecipientID(), retrieved.RecipientID())
	suite.Equal(n.OrderID(), retrieved.OrderID())
	suite.Equal("Order confirmed", retrieved.Title())
	suite.False(retrieved.IsRead())
}

func (suite *NotificationRepositoryIntegrationTestSuite) TestAdd_SameIDTwice_IsIdempotent() {
	ctx := context.Background()

	first := suite.createNotification(kernel.NewUUID(), "Order confirmed", time.Now().UTC())
	suite.Require().NoError(suite.repository.Add(ctx, first))

	// a redelivered event produces the same notification id with possibly newer text
	duplicate, err := notification.RestoreNotification(
		first.ID(),
		first.RecipientID(),
		first.OrderID(),
		"Order confirmed (redelivery)",
		"redelivered body",
		false,
		time.Now().UTC(),
	)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, duplicate))

	stored, err := suite.repository.GetByRecipient(ctx, first.RecipientID())
	suite.Require().NoError(err)
	suite.Require().Len(stored, 1, "duplicate insert must not create a second row")
	suite.Equal("Order confirmed", stored[0].Title(), "first write wins")
}

func (suite *NotificationRepositoryIntegrationTestSuite) TestGetByRecipient_NewestFirstOwnInboxOnly() {
	ctx := context.Background()

	recipient := kernel.NewUUID()
	stranger := kernel.NewUUID()

	older := suite.createNotification(recipient, "older", time.Now().UTC().Add(-time.Hour))
	suite.Require().NoError(suite.repository.Add(ctx, older))
	newer := suite.createNotification(recipient, "newer", time.Now().UTC())
	suite.Require().NoError(suite.repository.Add(ctx, newer))
	other := suite.createNotification(stranger, "other inbox", time.Now().UTC())
	suite.Require().NoError(suite.repository.Add(ctx, other))

	got, err := suite.repository.GetByRecipient(ctx, recipient)
	suite.Require().NoError(err)

	suite.Require().Len(got, 2)
	suite.Equal(newer.ID(), got[0].ID(), "newest first")
	suite.Equal(older.ID(), got[1].ID())
}

func (suite *NotificationRepositoryIntegrationTestSuite) TestUpdate_PersistsReadFlag() {
	ctx := context.Background()

	n := suite.createNotification(kernel.NewUUID(), "Order confirmed", time.Now().UTC())
	suite.Require().NoError(suite.repository.Add(ctx, n))

	suite.Require().NoError(n.MarkRead(n.RecipientID()))
	suite.Require().NoError(suite.repository.Update(ctx, n))

	retrieved, err := suite.repository.Get(ctx, n.ID())
	suite.Require().NoError(err)
	suite.True(retrieved.IsRead())
}

func (suite *NotificationRepositoryIntegrationTestSuite) TestUpdate_NonExistentNotification() {
	ctx := context.Background()

	n := suite.createNotification(kernel.NewUUID(), "never stored", time.Now().UTC())
	err := suite.repository.Update(ctx, n)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *NotificationRepositoryIntegrationTestSuite) createNotification(
	recipientID kernel.UUID, title string, createdAt time.Time,
) *notification.Notification {
	n, err := notification.NewNotification(
		kernel.NewUUID(),
		recipientID,
		kernel.NewUUID(),
		title,
		"body",
		createdAt,
	)
	suite.Require().NoError(err)
	return n
}

func (suite *NotificationRepositoryIntegrationTestSuite) TestGet_NonExistentNotification() {
	retrieved, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Nil(retrieved)
	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func TestNotificationRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationRepositoryIntegrationTestSuite))
}
