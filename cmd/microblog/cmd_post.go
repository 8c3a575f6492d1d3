package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sakif/microblog/internal/model"
)

var postCmd = &cobra.Command{
	Use:   "post <user-id> <body>",
	Short: "Publish a micropost as the given user",
	Args:  cobra.ExactArgs(2),
	RunE:  runPost,
}

var timelineCmd = &cobra.Command{
	Use:   "timeline <user-id>",
	Short: "List the user's own posts, most recent first",
	Args:  cobra.ExactArgs(1),
	RunE:  runTimeline,
}

var feedCmd = &cobra.Command{
	Use:   "feed <user-id>",
	Short: "Show the user's feed: own posts plus posts of followed users",
	Args:  cobra.ExactArgs(1),
	RunE:  runFeed,
}

func runPost(cmd *cobra.Command, args []string) error {
	id, err := parseUserID(args[0])
	if err != nil {
		return err
	}

	post, err := posts.Create(cmd.Context(), id, args[1])
	if err != nil {
		return err
	}

	fmt.Printf("Posted %d\n", post.ID)
	return nil
}

func runTimeline(cmd *cobra.Command, args []string) error {
	id, err := parseUserID(args[0])
	if err != nil {
		return err
	}

	list, err := posts.ListByUser(cmd.Context(), id)
	if err != nil {
		return err
	}

	printPosts(list)
	return nil
}

func runFeed(cmd *cobra.Command, args []string) error {
	id, err := parseUserID(args[0])
	if err != nil {
		return err
	}

	feed, err := feeds.Feed(cmd.Context(), id)
	if err != nil {
		return err
	}

	printPosts(feed)
	return nil
}

func printPosts(list []model.Micropost) {
	if len(list) == 0 {
		fmt.Println("(no posts)")
		return
	}
	for _, p := range list {
		fmt.Printf("%d  %s  user %d  %s\n",
			p.ID, p.CreatedAt.Format("2006-01-02 15:04:05"), p.UserID, p.Body)
	}
}
