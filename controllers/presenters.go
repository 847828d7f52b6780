package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/socialhub/socialhub/models"
	"github.com/socialhub/socialhub/services"
)

const mediaPrefix = "/media/"

func photoURL(path string) string {
	if path == "" {
		return ""
	}
	return mediaPrefix + path
}

func presentUser(u models.User) gin.H {
	return gin.H{
		"id":          u.ID,
		"username":    u.Username,
		"email":       u.Email,
		"first_name":  u.FirstName,
		"last_name":   u.LastName,
		"about_me":    u.AboutMe,
		"avatar_url":  u.AvatarURL,
		"date_joined": u.CreatedAt,
	}
}

func presentHashtags(tags []models.Hashtag) []gin.H {
	return lo.Map(tags, func(t models.Hashtag, _ int) gin.H {
		return gin.H{"id": t.ID, "name": t.Name}
	})
}

// presentPost is the full representation returned after writes.
func presentPost(p models.Post) gin.H {
	return gin.H{
		"id":          p.ID,
		"photo":       photoURL(p.Photo),
		"title":       p.Title,
		"content":     p.Content,
		"hashtags":    presentHashtags(p.Hashtags),
		"date_posted": p.CreatedAt,
	}
}

func presentPostListItem(p models.Post, _ int) gin.H {
	return gin.H{
		"id":          p.ID,
		"user":        p.User.Username,
		"title":       p.Title,
		"date_posted": p.CreatedAt,
	}
}

func presentFeedItem(p models.Post, _ int) gin.H {
	return gin.H{
		"id":          p.ID,
		"username":    p.User.Username,
		"title":       p.Title,
		"content":     p.Content,
		"date_posted": p.CreatedAt,
	}
}

// presentReactedPost shapes entries of the liked and disliked listings.
func presentReactedPost(p models.Post, _ int) gin.H {
	h := presentPost(p)
	h["username"] = p.User.Username
	return h
}

func presentPostDetail(d *services.PostDetail) gin.H {
	h := presentPost(d.Post)
	h["username"] = d.Post.User.Username
	h["user_email"] = d.Post.User.Email
	h["likes_count"] = d.LikesCount
	h["dislikes_count"] = d.DislikesCount
	h["comments"] = lo.Map(d.Comments, func(c models.Comment, _ int) gin.H {
		return gin.H{
			"id":         c.ID,
			"user":       c.User.Username,
			"content":    c.Content,
			"created_at": c.CreatedAt,
			"updated_at": c.UpdatedAt,
		}
	})
	return h
}

func presentCommentListItem(c models.Comment, _ int) gin.H {
	return gin.H{
		"id":         c.ID,
		"post_title": c.Post.Title,
		"user":       c.User.Username,
		"created_at": c.CreatedAt,
	}
}

func presentCommentDetail(c models.Comment) gin.H {
	return gin.H{
		"id":         c.ID,
		"post":       c.PostID,
		"user":       c.User.Username,
		"user_email": c.User.Email,
		"post_title": c.Post.Title,
		"content":    c.Content,
		"created_at": c.CreatedAt,
		"updated_at": c.UpdatedAt,
	}
}

func presentReactionListItem(id uint, user models.User, post models.Post) gin.H {
	return gin.H{
		"id":         id,
		"user":       user.Username,
		"post_id":    post.ID,
		"post_title": post.Title,
	}
}

func presentReactionDetail(id uint, user models.User, post models.Post) gin.H {
	return gin.H{
		"id":   id,
		"user": user.Username,
		"post": presentPost(post),
	}
}

func presentLikes(rows []models.Like) []gin.H {
	return lo.Map(rows, func(l models.Like, _ int) gin.H {
		return presentReactionListItem(l.ID, l.User, l.Post)
	})
}

func presentDislikes(rows []models.Dislike) []gin.H {
	return lo.Map(rows, func(d models.Dislike, _ int) gin.H {
		return presentReactionListItem(d.ID, d.User, d.Post)
	})
}

// presentEdgeAccount shows the account on the far side of a subscription edge.
func presentEdgeAccount(edgeID uint, u models.User) gin.H {
	return gin.H{
		"id":         edgeID,
		"avatar":     u.AvatarURL,
		"username":   u.Username,
		"full_name":  u.FullName(),
		"email":      u.Email,
		"about_user": u.AboutMe,
	}
}

func presentSubscription(s models.Subscription, subscriber, subscribed string) gin.H {
	return gin.H{
		"id":         s.ID,
		"subscriber": subscriber,
		"subscribed": subscribed,
		"created_at": s.CreatedAt,
	}
}
