package handlers_test

import (
	"net/http"
	"testing"

	"icancare-server/internal/models"
)

func TestForumDoctorOnly(t *testing.T) {
	env := newTestEnv(t)
	_, patientToken := env.createPatient("p@example.com")
	_, doctorToken := env.createDoctor("d@example.com", models.ApprovalApproved)

	rec := env.do(http.MethodGet, "/api/forum/posts", patientToken, nil)
	expectStatus(t, rec, http.StatusForbidden)

	rec = env.do(http.MethodPost, "/api/forum/posts", patientToken, map[string]string{
		"title": "t", "content": "c",
	})
	expectStatus(t, rec, http.StatusForbidden)

	rec = env.do(http.MethodGet, "/api/forum/posts", doctorToken, nil)
	expectStatus(t, rec, http.StatusOK)
}

func TestForumPostAndReplies(t *testing.T) {
	env := newTestEnv(t)
	author, authorToken := env.createDoctor("author@example.com", models.ApprovalApproved)
	_, replierToken := env.createDoctor("replier@example.com", models.ApprovalApproved)

	rec := env.do(http.MethodPost, "/api/forum/posts", authorToken, map[string]string{
		"title":   "Lymphedema staging",
		"content": "How do you stage borderline cases?",
	})
	expectStatus(t, rec, http.StatusCreated)
	var post models.ForumPost
	decodeData(t, rec, &post)
	if post.AuthorID != author.ID {
		t.Errorf("expected author %s, got %s", author.ID, post.AuthorID)
	}

	rec = env.do(http.MethodPost, "/api/forum/posts/"+post.ID+"/replies", replierToken, map[string]string{
		"content": "We use ISL criteria",
	})
	expectStatus(t, rec, http.StatusCreated)
	rec = env.do(http.MethodPost, "/api/forum/posts/"+post.ID+"/replies", authorToken, map[string]string{
		"content": "Thanks, will compare",
	})
	expectStatus(t, rec, http.StatusCreated)

	rec = env.do(http.MethodGet, "/api/forum/posts/"+post.ID, authorToken, nil)
	expectStatus(t, rec, http.StatusOK)
	var fetched models.ForumPost
	decodeData(t, rec, &fetched)
	if len(fetched.Replies) != 2 {
		t.Fatalf("expected 2 replies, got %d", len(fetched.Replies))
	}
	if fetched.Replies[0].Content != "We use ISL criteria" {
		t.Error("expected replies in chronological order")
	}
	if fetched.Author.FirstName != "Doc" {
		t.Error("expected post author to be preloaded")
	}

	rec = env.do(http.MethodPost, "/api/forum/posts/nonexistent/replies", authorToken, map[string]string{
		"content": "lost",
	})
	expectStatus(t, rec, http.StatusNotFound)
}

func TestForumListFilters(t *testing.T) {
	env := newTestEnv(t)
	alice, aliceToken := env.createDoctor("alice@example.com", models.ApprovalApproved)
	_, bobToken := env.createDoctor("bob@example.com", models.ApprovalApproved)

	for _, p := range []struct {
		token, title, content string
	}{
		{aliceToken, "Compression garments", "sizing advice"},
		{aliceToken, "Referral pathways", "who handles intake"},
		{bobToken, "Garment suppliers", "regional options"},
	} {
		rec := env.do(http.MethodPost, "/api/forum/posts", p.token, map[string]string{
			"title": p.title, "content": p.content,
		})
		expectStatus(t, rec, http.StatusCreated)
	}

	rec := env.do(http.MethodGet, "/api/forum/posts?q=garment", aliceToken, nil)
	expectStatus(t, rec, http.StatusOK)
	var posts []models.ForumPost
	decodeData(t, rec, &posts)
	if len(posts) != 2 {
		t.Errorf("expected 2 posts matching %q, got %d", "garment", len(posts))
	}

	rec = env.do(http.MethodGet, "/api/forum/posts?author="+alice.ID, aliceToken, nil)
	expectStatus(t, rec, http.StatusOK)
	posts = nil
	decodeData(t, rec, &posts)
	if len(posts) != 2 {
		t.Errorf("expected 2 posts by alice, got %d", len(posts))
	}
	for _, p := range posts {
		if p.AuthorID != alice.ID {
			t.Errorf("author filter leaked post by %s", p.AuthorID)
		}
	}
}
