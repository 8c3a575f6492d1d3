package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sakif/microblog/internal/model"
)

var followCmd = &cobra.Command{
	Use:   "follow <follower-id> <followed-id>",
	Short: "Make one user follow another",
	Args:  cobra.ExactArgs(2),
	RunE:  runFollow,
}

var unfollowCmd = &cobra.Command{
	Use:   "unfollow <follower-id> <followed-id>",
	Short: "Remove a follow edge",
	Args:  cobra.ExactArgs(2),
	RunE:  runUnfollow,
}

var followingCmd = &cobra.Command{
	Use:   "following <user-id>",
	Short: "List the users this user follows",
	Args:  cobra.ExactArgs(1),
	RunE:  runFollowing,
}

var followersCmd = &cobra.Command{
	Use:   "followers <user-id>",
	Short: "List the users following this user",
	Args:  cobra.ExactArgs(1),
	RunE:  runFollowers,
}

func parseEdge(args []string) (int64, int64, error) {
	follower, err := parseUserID(args[0])
	if err != nil {
		return 0, 0, err
	}
	followed, err := parseUserID(args[1])
	if err != nil {
		return 0, 0, err
	}
	return follower, followed, nil
}

func runFollow(cmd *cobra.Command, args []string) error {
	follower, followed, err := parseEdge(args)
	if err != nil {
		return err
	}
	if err := relationships.Follow(cmd.Context(), follower, followed); err != nil {
		return err
	}

	fmt.Printf("User %d now follows user %d\n", follower, followed)
	return nil
}

func runUnfollow(cmd *cobra.Command, args []string) error {
	follower, followed, err := parseEdge(args)
	if err != nil {
		return err
	}
	if err := relationships.Unfollow(cmd.Context(), follower, followed); err != nil {
		return err
	}

	fmt.Printf("User %d no longer follows user %d\n", follower, followed)
	return nil
}

func runFollowing(cmd *cobra.Command, args []string) error {
	id, err := parseUserID(args[0])
	if err != nil {
		return err
	}

	list, err := relationships.Following(cmd.Context(), id)
	if err != nil {
		return err
	}

	printUsers(list)
	return nil
}

func runFollowers(cmd *cobra.Command, args []string) error {
	id, err := parseUserID(args[0])
	if err != nil {
		return err
	}

	list, err := relationships.Followers(cmd.Context(), id)
	if err != nil {
		return err
	}

	printUsers(list)
	return nil
}

func printUsers(list []model.User) {
	if len(list) == 0 {
		fmt.Println("(none)")
		return
	}
	for _, u := range list {
		admin := ""
		if u.Admin {
			admin = "  admin"
		}
		fmt.Printf("%d  %s <%s>%s\n", u.ID, u.Name, u.Email, admin)
	}
}
