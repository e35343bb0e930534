package pg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/inkpress/inkpress/internal/storage"
	pkgtesting "github.com/inkpress/inkpress/pkg/testing"
	"github.com/testcontainers/testcontainers-go"
)

var (
	testCtx   context.Context
	testPool  *ConnectionPool
	testStore *Store
)

func TestMain(m *testing.M) {
	testCtx = context.Background()

	pg, err := pkgtesting.NewPGContainer(testCtx, pkgtesting.PGConfig{
		Database: "inkpress_test_db",
		Username: "test",
		Password: "test",
	})
	if err != nil {
		panic(err)
	}
	defer testcontainers.TerminateContainer(pg.Container)

	testPool, err = NewConnectionPool(testCtx, PoolConfig{ConnStr: pg.ConnString})
	if err != nil {
		panic(err)
	}
	defer testPool.Close()

	testStore = NewStore(testPool)

	os.Exit(m.Run())
}

func truncateAll(t *testing.T) {
	t.Helper()
	_, err := testPool.GetConn().Exec(testCtx, "TRUNCATE TABLE users, articles, newsletter_subscribers, daily_stats CASCADE")
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

func createTestUser(t *testing.T, email string) *domain.User {
	t.Helper()
	user := &domain.User{
		Email:        email,
		Name:         "Test User",
		PasswordHash: "not-a-real-hash",
	}
	if err := testStore.CreateUser(testCtx, user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func createTestArticle(t *testing.T, authorID uuid.UUID, status domain.ArticleStatus, tags ...string) *domain.Article {
	t.Helper()
	article := &domain.Article{
		Title:    "Test Article",
		Slug:     fmt.Sprintf("test-article-%d", time.Now().UnixNano()),
		Content:  "Body of the test article.",
		Excerpt:  "A short excerpt.",
		Status:   status,
		AuthorID: authorID,
	}
	if err := testStore.CreateArticle(testCtx, article, tags); err != nil {
		t.Fatalf("failed to create article: %v", err)
	}
	return article
}

func TestStore_CreateUser_DuplicateEmail(t *testing.T) {
	truncateAll(t)

	createTestUser(t, "dup@example.com")

	err := testStore.CreateUser(testCtx, &domain.User{
		Email:        "dup@example.com",
		Name:         "Second",
		PasswordHash: "hash",
	})
	if err == nil {
		t.Fatal("expected duplicate email to be rejected")
	}

	user, err := testStore.UserByEmail(testCtx, "dup@example.com")
	if err != nil {
		t.Fatalf("failed to look up user: %v", err)
	}
	if user.Name != "Test User" {
		t.Errorf("expected original user to survive, got name %q", user.Name)
	}
}

func TestStore_CreateArticle_TagsAndSlugLookup(t *testing.T) {
	truncateAll(t)

	author := createTestUser(t, "author@example.com")
	article := createTestArticle(t, author.ID, domain.StatusPublished, "golang", "testing")

	got, err := testStore.ArticleBySlug(testCtx, article.Slug)
	if err != nil {
		t.Fatalf("failed to fetch by slug: %v", err)
	}
	if got.ID != article.ID {
		t.Errorf("expected article %s, got %s", article.ID, got.ID)
	}
	if got.PublishedAt == nil {
		t.Error("expected published_at to be set on a published article")
	}
	if len(got.Tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(got.Tags))
	}
	if got.Author == nil || got.Author.Name != "Test User" {
		t.Errorf("expected author summary, got %+v", got.Author)
	}
}

func TestStore_ListArticles_FiltersByStatus(t *testing.T) {
	truncateAll(t)

	author := createTestUser(t, "author@example.com")
	createTestArticle(t, author.ID, domain.StatusDraft)
	createTestArticle(t, author.ID, domain.StatusPublished)
	createTestArticle(t, author.ID, domain.StatusPublished)

	articles, total, err := testStore.ListArticles(testCtx, ArticleQuery{
		Status: domain.StatusPublished,
		Limit:  10,
	})
	if err != nil {
		t.Fatalf("failed to list articles: %v", err)
	}
	if total != 2 {
		t.Errorf("expected total 2, got %d", total)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	for _, a := range articles {
		if a.Status != domain.StatusPublished {
			t.Errorf("expected only published articles, got status %s", a.Status)
		}
	}
}

func TestStore_SetArticleStatus_StampsPublishedAt(t *testing.T) {
	truncateAll(t)

	author := createTestUser(t, "author@example.com")
	article := createTestArticle(t, author.ID, domain.StatusDraft)

	if err := testStore.SetArticleStatus(testCtx, article.ID, domain.StatusPublished); err != nil {
		t.Fatalf("failed to publish article: %v", err)
	}

	got, err := testStore.ArticleByID(testCtx, article.ID)
	if err != nil {
		t.Fatalf("failed to fetch article: %v", err)
	}
	if got.Status != domain.StatusPublished {
		t.Errorf("expected PUBLISHED, got %s", got.Status)
	}
	if got.PublishedAt == nil {
		t.Error("expected published_at to be stamped")
	}

	recent, err := testStore.ArticlesPublishedSince(testCtx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("failed to fetch recent articles: %v", err)
	}
	if len(recent) != 1 {
		t.Errorf("expected 1 recently published article, got %d", len(recent))
	}
}

func TestStore_Comments_ModerationFlow(t *testing.T) {
	truncateAll(t)

	author := createTestUser(t, "author@example.com")
	article := createTestArticle(t, author.ID, domain.StatusPublished)

	comment := &domain.Comment{
		ArticleID: article.ID,
		Name:      "Anon Reader",
		Email:     "anon@example.com",
		Content:   "Waiting for approval.",
	}
	if err := testStore.CreateComment(testCtx, comment); err != nil {
		t.Fatalf("failed to create comment: %v", err)
	}

	visible, err := testStore.CommentsByArticle(testCtx, article.ID)
	if err != nil {
		t.Fatalf("failed to list comments: %v", err)
	}
	if len(visible) != 0 {
		t.Errorf("expected unapproved comment to be hidden, got %d", len(visible))
	}

	unapproved := false
	pending, err := testStore.ListComments(testCtx, &unapproved)
	if err != nil {
		t.Fatalf("failed to list pending comments: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending comment, got %d", len(pending))
	}

	if err := testStore.SetCommentApproved(testCtx, comment.ID, true); err != nil {
		t.Fatalf("failed to approve comment: %v", err)
	}

	visible, err = testStore.CommentsByArticle(testCtx, article.ID)
	if err != nil {
		t.Fatalf("failed to list comments: %v", err)
	}
	if len(visible) != 1 {
		t.Fatalf("expected 1 visible comment after approval, got %d", len(visible))
	}
	if visible[0].Name != "Anon Reader" {
		t.Errorf("expected anonymous name to survive, got %q", visible[0].Name)
	}
}

func TestStore_Comments_ThreadedReplies(t *testing.T) {
	truncateAll(t)

	author := createTestUser(t, "author@example.com")
	article := createTestArticle(t, author.ID, domain.StatusPublished)

	parent := &domain.Comment{
		ArticleID: article.ID,
		UserID:    &author.ID,
		Content:   "Top level.",
		Approved:  true,
	}
	if err := testStore.CreateComment(testCtx, parent); err != nil {
		t.Fatalf("failed to create parent: %v", err)
	}
	reply := &domain.Comment{
		ArticleID: article.ID,
		UserID:    &author.ID,
		Content:   "A reply.",
		ParentID:  &parent.ID,
		Approved:  true,
	}
	if err := testStore.CreateComment(testCtx, reply); err != nil {
		t.Fatalf("failed to create reply: %v", err)
	}

	comments, err := testStore.CommentsByArticle(testCtx, article.ID)
	if err != nil {
		t.Fatalf("failed to list comments: %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("expected 1 root comment, got %d", len(comments))
	}
	if len(comments[0].Replies) != 1 {
		t.Fatalf("expected 1 reply, got %d", len(comments[0].Replies))
	}
	if comments[0].Replies[0].Content != "A reply." {
		t.Errorf("unexpected reply content %q", comments[0].Replies[0].Content)
	}
}

func TestStore_LikeArticle_OncePerIdentity(t *testing.T) {
	truncateAll(t)

	author := createTestUser(t, "author@example.com")
	article := createTestArticle(t, author.ID, domain.StatusPublished)

	inserted, err := testStore.LikeArticle(testCtx, article.ID, nil, "10.0.0.1")
	if err != nil {
		t.Fatalf("failed to like: %v", err)
	}
	if !inserted {
		t.Error("expected first like to insert")
	}

	inserted, err = testStore.LikeArticle(testCtx, article.ID, nil, "10.0.0.1")
	if err != nil {
		t.Fatalf("failed on repeat like: %v", err)
	}
	if inserted {
		t.Error("expected repeat like from same ip to be a no-op")
	}

	liked, err := testStore.HasLiked(testCtx, article.ID, nil, "10.0.0.1")
	if err != nil {
		t.Fatalf("failed to check like: %v", err)
	}
	if !liked {
		t.Error("expected HasLiked to report true")
	}

	removed, err := testStore.UnlikeArticle(testCtx, article.ID, nil, "10.0.0.1")
	if err != nil {
		t.Fatalf("failed to unlike: %v", err)
	}
	if !removed {
		t.Error("expected unlike to remove the row")
	}
}

func TestStore_Purchases_CompletedUnlocks(t *testing.T) {
	truncateAll(t)

	author := createTestUser(t, "author@example.com")
	buyer := createTestUser(t, "buyer@example.com")
	article := createTestArticle(t, author.ID, domain.StatusPublished)

	purchase := &domain.Purchase{
		UserID:          buyer.ID,
		ArticleID:       article.ID,
		Amount:          9.99,
		StripePaymentID: "pi_test_123",
	}
	if err := testStore.CreatePurchase(testCtx, purchase); err != nil {
		t.Fatalf("failed to create purchase: %v", err)
	}
	if purchase.Status != domain.PurchasePending {
		t.Errorf("expected default status PENDING, got %s", purchase.Status)
	}

	unlocked, err := testStore.HasPurchased(testCtx, buyer.ID, article.ID)
	if err != nil {
		t.Fatalf("failed to check purchase: %v", err)
	}
	if unlocked {
		t.Error("expected pending purchase not to unlock")
	}

	updated, err := testStore.SetPurchaseStatus(testCtx, "pi_test_123", domain.PurchaseCompleted)
	if err != nil {
		t.Fatalf("failed to complete purchase: %v", err)
	}
	if updated != 1 {
		t.Errorf("expected 1 row updated, got %d", updated)
	}

	unlocked, err = testStore.HasPurchased(testCtx, buyer.ID, article.ID)
	if err != nil {
		t.Fatalf("failed to check purchase: %v", err)
	}
	if !unlocked {
		t.Error("expected completed purchase to unlock")
	}

	got, err := testStore.PurchaseByPaymentID(testCtx, "pi_test_123")
	if err != nil {
		t.Fatalf("failed to fetch purchase: %v", err)
	}
	if got.Status != domain.PurchaseCompleted {
		t.Errorf("expected COMPLETED, got %s", got.Status)
	}
}

func TestStore_PurchasesByUser_CompletedOnly(t *testing.T) {
	truncateAll(t)

	author := createTestUser(t, "author@example.com")
	buyer := createTestUser(t, "buyer@example.com")
	bought := createTestArticle(t, author.ID, domain.StatusPublished)
	abandoned := createTestArticle(t, author.ID, domain.StatusPublished)

	pending := &domain.Purchase{
		UserID: buyer.ID, ArticleID: abandoned.ID, Amount: 4.99, StripePaymentID: "pi_pending",
	}
	if err := testStore.CreatePurchase(testCtx, pending); err != nil {
		t.Fatalf("failed to create pending purchase: %v", err)
	}
	completed := &domain.Purchase{
		UserID: buyer.ID, ArticleID: bought.ID, Amount: 9.99, StripePaymentID: "pi_done",
	}
	if err := testStore.CreatePurchase(testCtx, completed); err != nil {
		t.Fatalf("failed to create purchase: %v", err)
	}
	if _, err := testStore.SetPurchaseStatus(testCtx, "pi_done", domain.PurchaseCompleted); err != nil {
		t.Fatalf("failed to complete purchase: %v", err)
	}

	history, err := testStore.PurchasesByUser(testCtx, buyer.ID)
	if err != nil {
		t.Fatalf("failed to list purchases: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected only the completed purchase, got %d rows", len(history))
	}
	if history[0].StripePaymentID != "pi_done" {
		t.Errorf("expected pi_done in history, got %s", history[0].StripePaymentID)
	}
	if history[0].Article == nil || history[0].Article.ID != bought.ID {
		t.Errorf("expected the bought article attached, got %+v", history[0].Article)
	}
}

func TestStore_CreatePurchase_DuplicatePaymentID(t *testing.T) {
	truncateAll(t)

	author := createTestUser(t, "author@example.com")
	buyer := createTestUser(t, "buyer@example.com")
	article := createTestArticle(t, author.ID, domain.StatusPublished)

	first := &domain.Purchase{
		UserID: buyer.ID, ArticleID: article.ID, Amount: 9.99, StripePaymentID: "pi_dup",
	}
	if err := testStore.CreatePurchase(testCtx, first); err != nil {
		t.Fatalf("failed to create purchase: %v", err)
	}

	err := testStore.CreatePurchase(testCtx, &domain.Purchase{
		UserID: buyer.ID, ArticleID: article.ID, Amount: 9.99, StripePaymentID: "pi_dup",
	})
	var conflict *apperr.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected conflict for duplicate payment id, got %v", err)
	}
}

func TestStore_Bookmarks_ConflictAndMissing(t *testing.T) {
	truncateAll(t)

	author := createTestUser(t, "author@example.com")
	reader := createTestUser(t, "reader@example.com")
	article := createTestArticle(t, author.ID, domain.StatusPublished)

	if err := testStore.AddBookmark(testCtx, reader.ID, article.ID); err != nil {
		t.Fatalf("failed to add bookmark: %v", err)
	}

	err := testStore.AddBookmark(testCtx, reader.ID, article.ID)
	var conflict *apperr.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected conflict on duplicate bookmark, got %v", err)
	}

	if err := testStore.RemoveBookmark(testCtx, reader.ID, article.ID); err != nil {
		t.Fatalf("failed to remove bookmark: %v", err)
	}

	err = testStore.RemoveBookmark(testCtx, reader.ID, article.ID)
	var notFound *apperr.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected not-found on missing bookmark, got %v", err)
	}
}

func TestStore_UpsertDailyStats_IdempotentByDate(t *testing.T) {
	truncateAll(t)

	date := time.Now().UTC().Truncate(24 * time.Hour)

	first := &domain.DailyStats{Date: date, Views: 10, Sessions: 4}
	if err := testStore.UpsertDailyStats(testCtx, first); err != nil {
		t.Fatalf("failed to upsert stats: %v", err)
	}
	second := &domain.DailyStats{Date: date, Views: 25, Sessions: 9}
	if err := testStore.UpsertDailyStats(testCtx, second); err != nil {
		t.Fatalf("failed to re-upsert stats: %v", err)
	}

	stats, err := testStore.RecentDailyStats(testCtx, 7)
	if err != nil {
		t.Fatalf("failed to fetch stats: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("expected a single rollup row per date, got %d", len(stats))
	}
	if stats[0].Views != 25 || stats[0].Sessions != 9 {
		t.Errorf("expected the rerun to overwrite, got views=%d sessions=%d", stats[0].Views, stats[0].Sessions)
	}
}

func TestStore_Subscribe_ReactivatesInactiveOnly(t *testing.T) {
	truncateAll(t)

	sub := &domain.Subscriber{Email: "reader@example.com", Tags: "golang"}
	if err := testStore.Subscribe(testCtx, sub); err != nil {
		t.Fatalf("failed to subscribe: %v", err)
	}

	err := testStore.Subscribe(testCtx, &domain.Subscriber{Email: "reader@example.com"})
	if err == nil {
		t.Fatal("expected re-subscribing an active email to conflict")
	}

	if err := testStore.Unsubscribe(testCtx, "reader@example.com"); err != nil {
		t.Fatalf("failed to unsubscribe: %v", err)
	}

	if err := testStore.Subscribe(testCtx, &domain.Subscriber{Email: "reader@example.com", Tags: "science"}); err != nil {
		t.Fatalf("expected resubscribe after unsubscribe to succeed: %v", err)
	}

	active, err := testStore.ActiveSubscribers(testCtx, "")
	if err != nil {
		t.Fatalf("failed to list subscribers: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("expected 1 active subscriber, got %d", len(active))
	}
	if active[0].Tags != "science" {
		t.Errorf("expected tags to refresh on resubscribe, got %q", active[0].Tags)
	}
}

func TestStore_Notifications_ReadFlow(t *testing.T) {
	truncateAll(t)

	user := createTestUser(t, "user@example.com")

	for i := 0; i < 3; i++ {
		err := testStore.CreateNotification(testCtx, &domain.Notification{
			UserID:  user.ID,
			Type:    domain.NotificationCommentReply,
			Title:   "New reply",
			Message: "Someone replied to your comment",
		})
		if err != nil {
			t.Fatalf("failed to create notification: %v", err)
		}
	}

	count, err := testStore.UnreadNotificationCount(testCtx, user.ID)
	if err != nil {
		t.Fatalf("failed to count unread: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 unread, got %d", count)
	}

	marked, err := testStore.MarkAllNotificationsRead(testCtx, user.ID)
	if err != nil {
		t.Fatalf("failed to mark all read: %v", err)
	}
	if marked != 3 {
		t.Errorf("expected 3 marked, got %d", marked)
	}

	count, err = testStore.UnreadNotificationCount(testCtx, user.ID)
	if err != nil {
		t.Fatalf("failed to count unread: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 unread, got %d", count)
	}
}

func TestStore_ReadingProgress_UpsertKeepsOneRow(t *testing.T) {
	truncateAll(t)

	user := createTestUser(t, "reader@example.com")
	author := createTestUser(t, "author@example.com")
	article := createTestArticle(t, author.ID, domain.StatusPublished)

	first := &domain.ReadingProgress{UserID: user.ID, ArticleID: article.ID, Progress: 25}
	if err := testStore.UpsertReadingProgress(testCtx, first); err != nil {
		t.Fatalf("failed to save progress: %v", err)
	}
	second := &domain.ReadingProgress{UserID: user.ID, ArticleID: article.ID, Progress: 80}
	if err := testStore.UpsertReadingProgress(testCtx, second); err != nil {
		t.Fatalf("failed to update progress: %v", err)
	}

	got, err := testStore.ReadingProgressFor(testCtx, user.ID, article.ID)
	if err != nil {
		t.Fatalf("failed to fetch progress: %v", err)
	}
	if got.Progress != 80 {
		t.Errorf("expected progress 80, got %v", got.Progress)
	}

	history, err := testStore.ReadingHistory(testCtx, user.ID)
	if err != nil {
		t.Fatalf("failed to fetch history: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("expected a single history row, got %d", len(history))
	}
}

func TestStore_ArticleVersions_RestoreSwapsContent(t *testing.T) {
	truncateAll(t)

	author := createTestUser(t, "author@example.com")
	article := createTestArticle(t, author.ID, domain.StatusPublished)

	version := &domain.ArticleVersion{
		ArticleID: article.ID,
		Version:   "v1",
		Content:   article.Content,
		Changelog: "initial",
	}
	if err := testStore.CreateArticleVersion(testCtx, version); err != nil {
		t.Fatalf("failed to snapshot version: %v", err)
	}

	newContent := "Rewritten body."
	if err := testStore.UpdateArticle(testCtx, article.ID, ArticleUpdate{Content: &newContent}); err != nil {
		t.Fatalf("failed to update article: %v", err)
	}

	count, err := testStore.CountArticleVersions(testCtx, article.ID)
	if err != nil {
		t.Fatalf("failed to count versions: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 version, got %d", count)
	}

	if err := testStore.RestoreArticleVersion(testCtx, article.ID, version.ID); err != nil {
		t.Fatalf("failed to restore version: %v", err)
	}

	got, err := testStore.ArticleByID(testCtx, article.ID)
	if err != nil {
		t.Fatalf("failed to fetch article: %v", err)
	}
	if got.Content != "Body of the test article." {
		t.Errorf("expected restored content, got %q", got.Content)
	}
}

func TestStore_Search_FindsPublishedByQuery(t *testing.T) {
	truncateAll(t)

	author := createTestUser(t, "author@example.com")
	article := createTestArticle(t, author.ID, domain.StatusPublished)

	quantum := "Quantum Entanglement Explained"
	if err := testStore.UpdateArticle(testCtx, article.ID, ArticleUpdate{Title: &quantum}); err != nil {
		t.Fatalf("failed to retitle article: %v", err)
	}
	createTestArticle(t, author.ID, domain.StatusDraft)

	result, err := testStore.Search(testCtx, storage.SearchRequest{Query: "quantum", Page: 1, Size: 10})
	if err != nil {
		t.Fatalf("failed to search: %v", err)
	}
	if result.TotalMatches != 1 {
		t.Errorf("expected 1 match, got %d", result.TotalMatches)
	}
	if len(result.Hits) != 1 || result.Hits[0].Article.Title != quantum {
		t.Fatalf("expected the retitled article, got %+v", result.Hits)
	}
}

func TestStore_Search_FilterOnlyBrowsing(t *testing.T) {
	truncateAll(t)

	author := createTestUser(t, "author@example.com")
	science := createTestArticle(t, author.ID, domain.StatusPublished)
	culture := createTestArticle(t, author.ID, domain.StatusPublished)

	category := "science"
	premium := true
	price := 12.0
	if err := testStore.UpdateArticle(testCtx, science.ID, ArticleUpdate{
		Category: &category, IsPremium: &premium, Price: &price,
	}); err != nil {
		t.Fatalf("failed to update article: %v", err)
	}
	other := "culture"
	if err := testStore.UpdateArticle(testCtx, culture.ID, ArticleUpdate{Category: &other}); err != nil {
		t.Fatalf("failed to update article: %v", err)
	}

	result, err := testStore.Search(testCtx, storage.SearchRequest{
		Category: "science", Page: 1, Size: 10,
	})
	if err != nil {
		t.Fatalf("failed to browse by category: %v", err)
	}
	if result.TotalMatches != 1 || len(result.Hits) != 1 {
		t.Fatalf("expected 1 category match, got %d", result.TotalMatches)
	}
	if result.Hits[0].Article.ID != science.ID {
		t.Errorf("expected the science article, got %s", result.Hits[0].Article.ID)
	}

	minPrice := 5.0
	result, err = testStore.Search(testCtx, storage.SearchRequest{
		MinPrice: &minPrice, Page: 1, Size: 10,
	})
	if err != nil {
		t.Fatalf("failed to browse by price: %v", err)
	}
	if result.TotalMatches != 1 || result.Hits[0].Article.ID != science.ID {
		t.Errorf("expected only the priced article above 5, got %d matches", result.TotalMatches)
	}

	result, err = testStore.Search(testCtx, storage.SearchRequest{
		SortBy: storage.SortPriceDesc, Page: 1, Size: 10,
	})
	if err != nil {
		t.Fatalf("failed to sort by price: %v", err)
	}
	if len(result.Hits) != 2 || result.Hits[0].Article.ID != science.ID {
		t.Errorf("expected the priced article first under price_desc, got %+v", result.Hits)
	}
}

func TestStore_Search_AuthorMatchesNameOrEmail(t *testing.T) {
	truncateAll(t)

	author := createTestUser(t, "jane.doe@example.com")
	article := createTestArticle(t, author.ID, domain.StatusPublished)

	result, err := testStore.Search(testCtx, storage.SearchRequest{
		Author: "jane.doe", Page: 1, Size: 10,
	})
	if err != nil {
		t.Fatalf("failed to search by author email: %v", err)
	}
	if result.TotalMatches != 1 || result.Hits[0].Article.ID != article.ID {
		t.Errorf("expected an email fragment to match the author, got %d matches", result.TotalMatches)
	}
}

func TestStore_SuggestTitlesAndTags(t *testing.T) {
	truncateAll(t)

	author := createTestUser(t, "author@example.com")
	createTestArticle(t, author.ID, domain.StatusPublished, "golang", "testing")
	createTestArticle(t, author.ID, domain.StatusDraft, "goroutines")

	titles, err := testStore.SuggestTitles(testCtx, "Test", 5)
	if err != nil {
		t.Fatalf("failed to suggest titles: %v", err)
	}
	if len(titles) != 1 {
		t.Fatalf("expected only the published title, got %d", len(titles))
	}

	tags, err := testStore.SuggestTags(testCtx, "go", 5)
	if err != nil {
		t.Fatalf("failed to suggest tags: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("expected golang and goroutines, got %d", len(tags))
	}
	for _, tag := range tags {
		if tag.Slug != "golang" && tag.Slug != "goroutines" {
			t.Errorf("unexpected tag suggestion %q", tag.Slug)
		}
	}
}
