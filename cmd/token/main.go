package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"delivery-dispatch/internal/domain/user"
	"delivery-dispatch/internal/general/jwt"
)

func main() {
	var (
		userID = flag.String("user-id", "", "UUID of the user (subject)")
		role   = flag.String("role", "CUSTOMER", "User role: CUSTOMER | DRIVER | ADMIN")
		secret = flag.String("secret", "", "JWT HMAC secret (HS256)")
		ttl    = flag.Duration("ttl", 2*time.Hour, "Token lifetime")
	)
	flag.Parse()

	if *userID == "" || *secret == "" {
		fmt.Fprintln(os.Stderr, "usage: token --user-id=<uuid> --role=CUSTOMER --secret='<secret>' [--ttl=2h]")
		os.Exit(2)
	}

	parsedRole, err := user.ParseRole(*role)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}

	mgr := jwt.NewManager(*secret, *ttl)
	token, claims, err := mgr.IssueUserToken(*userID, parsedRole)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	fmt.Println("TOKEN:")
	fmt.Println(token)
	fmt.Println("\nCLAIMS:")
	fmt.Printf("  sub:  %s\n", claims.Subject)
	fmt.Printf("  role: %s\n", claims.Role)
	fmt.Printf("  iat:  %s\n", claims.IssuedAt.Time.UTC().Format(time.RFC3339))
	fmt.Printf("  exp:  %s\n", claims.ExpiresAt.Time.UTC().Format(time.RFC3339))
}
