// Seed tool: creates tags and a community with its administrator. The API has no
// operation for either, so fresh databases are populated with this.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/BrawlerYura/BlogAPIBack/internal/model"
	"github.com/BrawlerYura/BlogAPIBack/internal/store"
)

type options struct {
	tags        []string
	community   string
	description string
	closed      bool
	adminEmail  string
}

func main() {
	logger := logrus.New()
	logger.Formatter = &logrus.JSONFormatter{}

	var (
		driver, dsn, tags string
		opts              options
	)
	flag.StringVar(&driver, "driver", envOr("DB_DRIVER", "pgx"), "database driver: pgx | postgres | sqlite3")
	flag.StringVar(&dsn, "dsn", os.Getenv("POSTGRES_CONN"), "database connection string")
	flag.StringVar(&tags, "tags", "", "comma-separated tag names")
	flag.StringVar(&opts.community, "community", "", "community name to create")
	flag.StringVar(&opts.description, "description", "", "community description")
	flag.BoolVar(&opts.closed, "closed", false, "make the community closed")
	flag.StringVar(&opts.adminEmail, "admin", "", "email of an existing user to make administrator")
	flag.Parse()

	for _, t := range strings.Split(tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			opts.tags = append(opts.tags, t)
		}
	}
	if dsn == "" {
		logger.Fatal("missed -dsn or POSTGRES_CONN")
	}

	ctx := context.Background()
	s, err := store.Open(ctx, driver, dsn)
	if err != nil {
		logger.WithError(err).Fatal("open store")
	}
	defer s.Close()

	start := time.Now()
	if err := seed(ctx, s, opts, logger); err != nil {
		logger.WithError(err).Fatal("seed failed")
	}
	logger.WithField("took", time.Since(start).Truncate(time.Millisecond).String()).Info("done")
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func seed(ctx context.Context, s *store.Store, opts options, log logrus.FieldLogger) error {
	if err := s.Migrate(ctx); err != nil {
		return err
	}

	for _, name := range opts.tags {
		err := s.InsertTag(ctx, &model.Tag{ID: uuid.NewString(), Name: name, CreatedAt: time.Now().UTC()})
		switch {
		case errors.Is(err, store.ErrDuplicate):
			log.WithField("tag", name).Info("tag exists, skipped")
		case err != nil:
			return err
		default:
			log.WithField("tag", name).Info("tag created")
		}
	}

	if opts.community == "" {
		return nil
	}

	var admin *model.User
	if opts.adminEmail != "" {
		u, err := s.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(opts.adminEmail)))
		if err != nil {
			return err
		}
		if u == nil {
			return errors.New("administrator " + opts.adminEmail + " is not registered")
		}
		admin = u
	}

	c := &model.Community{
		ID:        uuid.NewString(),
		Name:      opts.community,
		IsClosed:  opts.closed,
		CreatedAt: time.Now().UTC(),
	}
	if opts.description != "" {
		c.Description = &opts.description
	}
	err := s.InTx(ctx, func(q *store.Queries) error {
		if err := q.InsertCommunity(ctx, c); err != nil {
			return err
		}
		if admin == nil {
			return nil
		}
		if err := q.InsertMembership(ctx, model.Membership{CommunityID: c.ID, UserID: admin.ID, IsAdministrator: true}); err != nil {
			return err
		}
		return q.AdjustSubscribers(ctx, c.ID, 1)
	})
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"community_id": c.ID, "closed": c.IsClosed}).Info("community created")
	return nil
}
