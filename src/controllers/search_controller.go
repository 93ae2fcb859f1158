package controllers

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/devlinkhq/devlink-backend/src/models"
	"github.com/devlinkhq/devlink-backend/src/services"
	"github.com/devlinkhq/devlink-backend/src/stores"
)

const combinedSearchLimit = 5

type SearchController struct {
	users    *stores.UserStore
	registry *services.Registry
	enrich   *services.Enricher
	posts    *PostController
	log      *zap.Logger
}

func NewSearchController(users *stores.UserStore, registry *services.Registry, enrich *services.Enricher, posts *PostController, log *zap.Logger) *SearchController {
	return &SearchController{
		users:    users,
		registry: registry,
		enrich:   enrich,
		posts:    posts,
		log:      log,
	}
}

// SearchUsers matches users by name or email, excluding the caller, each
// hit carrying the caller's relationship to them.
func (ctrl *SearchController) SearchUsers(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.Status(fiber.StatusOK).JSON([]models.UserSearchResult{})
	}

	page := int64(c.QueryInt("page", 1))
	limit := int64(c.QueryInt("limit", 10))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	user := currentUser(c)
	results, err := ctrl.searchUsers(c, user.Id, query, (page-1)*limit, limit)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	return c.Status(fiber.StatusOK).JSON(results)
}

// SearchPosts matches feed-visible posts by content or tags.
func (ctrl *SearchController) SearchPosts(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.Status(fiber.StatusOK).JSON([]models.PostView{})
	}

	page := int64(c.QueryInt("page", 1))
	limit := int64(c.QueryInt("limit", 10))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	user := currentUser(c)
	views, err := ctrl.searchPosts(c, user.Id, query, (page-1)*limit, limit)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	return c.Status(fiber.StatusOK).JSON(views)
}

// SearchAll runs both searches with a short result cap each.
func (ctrl *SearchController) SearchAll(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"users": []models.UserSearchResult{},
			"posts": []models.PostView{},
		})
	}

	user := currentUser(c)
	users, err := ctrl.searchUsers(c, user.Id, query, 0, combinedSearchLimit)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	posts, err := ctrl.searchPosts(c, user.Id, query, 0, combinedSearchLimit)
	if err != nil {
		return fail(c, ctrl.log, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"users": users,
		"posts": posts,
	})
}

func (ctrl *SearchController) searchUsers(c *fiber.Ctx, caller primitive.ObjectID, query string, skip, limit int64) ([]models.UserSearchResult, error) {
	hits, err := ctrl.users.Search(c.Context(), query, caller, skip, limit)
	if err != nil {
		return nil, err
	}

	results := make([]models.UserSearchResult, 0, len(hits))
	for _, hit := range hits {
		enriched, err := ctrl.enrich.EnrichedUser(c.Context(), hit.Id)
		if err != nil {
			return nil, err
		}

		info, err := ctrl.registry.Status(c.Context(), caller, hit.Id)
		if err != nil {
			return nil, err
		}

		results = append(results, models.UserSearchResult{
			EnrichedUser:     enriched,
			ConnectionStatus: info.Status,
		})
	}
	return results, nil
}

func (ctrl *SearchController) searchPosts(c *fiber.Ctx, caller primitive.ObjectID, query string, skip, limit int64) ([]models.PostView, error) {
	visible, err := ctrl.posts.visibleFilter(c, caller)
	if err != nil {
		return nil, err
	}

	pattern := regexp.QuoteMeta(query)
	filter := bson.M{
		"$and": []bson.M{
			visible,
			{"$or": []bson.M{
				{"content": primitive.Regex{Pattern: pattern, Options: "i"}},
				{"tags": primitive.Regex{Pattern: pattern, Options: "i"}},
			}},
		},
	}
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(skip).
		SetLimit(limit)

	return ctrl.posts.list(c, filter, opts)
}
