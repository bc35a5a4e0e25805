package commands

import (
	"errors"
	"fmt"
	"io"

	"inkpress/app/models"
	"inkpress/app/repositories"

	"github.com/spf13/cobra"
)

type sampleCategory struct {
	name        string
	description string
}

type samplePost struct {
	title    string
	category string
	featured bool
	content  string
}

var sampleCategories = []sampleCategory{
	{"Technology", "Posts about technology and programming"},
	{"Travel", "Travel experiences and tips"},
	{"Food", "Recipes and food reviews"},
	{"Lifestyle", "Lifestyle and personal development"},
}

var samplePosts = []samplePost{
	{
		title:    "Welcome to My Simple Blog",
		category: "Lifestyle",
		featured: true,
		content: `Welcome to my simple blog! This is the first post on this blog platform.

This blog demonstrates a handful of features:
- Categories and authors
- Server-rendered pages
- Comment handling
- Search and sorting
- Archives by year and month

Feel free to explore the different features and leave comments on posts!`,
	},
	{
		title:    "Getting Started with Go Web Development",
		category: "Technology",
		featured: true,
		content: `Go is a small language with a large standard library and a friendly toolchain.

Here are some of the pieces a web application is usually built from:

1. **Routing**: map URL patterns onto handlers.
2. **Persistence**: an ORM keeps models and queries in one place.
3. **Templates**: pages share a layout and a few partials.
4. **Caching**: precomputed aggregates and counters live in a key-value store.
5. **Configuration**: files and environment variables, in that order.

This blog itself is built from exactly these parts!`,
	},
	{
		title:    "Top 10 Travel Destinations for 2024",
		category: "Travel",
		content: `Planning your next adventure? Here are the top 10 travel destinations you should consider for 2024:

1. **Japan** - Experience the perfect blend of traditional and modern culture
2. **Iceland** - Stunning natural landscapes and the Northern Lights
3. **New Zealand** - Adventure sports and breathtaking scenery
4. **Portugal** - Beautiful coastlines and historic cities
5. **Costa Rica** - Rich biodiversity and eco-tourism
6. **Morocco** - Exotic culture and stunning architecture
7. **Vietnam** - Delicious food and beautiful landscapes
8. **Greece** - Ancient history and beautiful islands
9. **Canada** - Vast wilderness and friendly people
10. **Australia** - Unique wildlife and diverse landscapes

Each destination offers unique experiences and memories that will last a lifetime!`,
	},
	{
		title:    "Easy Homemade Pizza Recipe",
		category: "Food",
		content: `Nothing beats a homemade pizza! Here's a simple recipe that anyone can follow:

**Ingredients:**
- 2 cups all-purpose flour
- 1 packet active dry yeast
- 1 tsp salt
- 1 tbsp olive oil
- 3/4 cup warm water
- Pizza sauce
- Mozzarella cheese
- Your favorite toppings

**Instructions:**
1. Mix flour, yeast, and salt in a bowl
2. Add olive oil and warm water, mix until dough forms
3. Knead for 5-10 minutes until smooth
4. Let rise for 1 hour
5. Roll out dough, add sauce and toppings
6. Bake at 475°F for 12-15 minutes

Enjoy your homemade pizza!`,
	},
	{
		title:    "The Importance of Work-Life Balance",
		category: "Lifestyle",
		content: `In today's fast-paced world, maintaining a healthy work-life balance has become more important than ever.

**Why Work-Life Balance Matters:**

- **Mental Health**: Reduces stress and prevents burnout
- **Physical Health**: More time for exercise and proper rest
- **Relationships**: Quality time with family and friends
- **Productivity**: Better focus when you're well-rested
- **Personal Growth**: Time for hobbies and self-improvement

**Tips for Better Balance:**

1. Set clear boundaries between work and personal time
2. Learn to say no to non-essential commitments
3. Take regular breaks throughout the day
4. Prioritize your tasks effectively
5. Make time for activities you enjoy
6. Get enough sleep
7. Stay organized

Remember, work-life balance looks different for everyone. Find what works best for you!`,
	},
}

func SeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load sample categories, an admin author and sample posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.seed(cmd.OutOrStdout()); err != nil {
				return err
			}
			return app.listing.InvalidateAggregates()
		},
	}
}

// seed creates whatever sample records are missing. Running it twice is a
// no-op.
func (app *application) seed(out io.Writer) error {
	categories := make(map[string]*models.Category, len(sampleCategories))
	for _, sc := range sampleCategories {
		c, err := app.categoryRepo.GetByName(sc.name)
		if errors.Is(err, repositories.ErrNotFound) {
			c = &models.Category{Name: sc.name, Description: sc.description}
			if err = app.categoryRepo.Create(c); err == nil {
				fmt.Fprintf(out, "Created category: %s\n", c.Name)
			}
		}
		if err != nil {
			return fmt.Errorf("category %s: %w", sc.name, err)
		}
		categories[sc.name] = c
	}

	admin, err := app.authorRepo.GetByUsername("admin")
	if errors.Is(err, repositories.ErrNotFound) {
		admin = &models.Author{Username: "admin", Email: "admin@example.com"}
		if err = app.authorRepo.Create(admin); err == nil {
			fmt.Fprintln(out, "Created admin author")
		}
	}
	if err != nil {
		return fmt.Errorf("admin author: %w", err)
	}

	for _, sp := range samplePosts {
		slug := models.Slugify(sp.title)
		exists, err := app.postRepo.SlugExists(slug)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		post := &models.Post{
			Title:      sp.title,
			Slug:       slug,
			Content:    sp.content,
			AuthorID:   admin.ID,
			CategoryID: &categories[sp.category].ID,
			Published:  true,
			Featured:   sp.featured,
		}
		if err := app.posts.CreatePost(post); err != nil {
			return fmt.Errorf("post %q: %w", sp.title, err)
		}
		fmt.Fprintf(out, "Created post: %s\n", post.Title)
	}

	fmt.Fprintln(out, "Successfully loaded sample data!")
	return nil
}
