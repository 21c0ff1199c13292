// Command alveera is the storefront client CLI. It drives the catalog,
// cart, checkout and admin back-office against the Alveera backend, with
// cart and session state persisted between invocations.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/pranavchugh1/alveera/internal/admin"
	"github.com/pranavchugh1/alveera/internal/app"
	"github.com/pranavchugh1/alveera/internal/catalog"
	"github.com/pranavchugh1/alveera/internal/checkout"
	"github.com/pranavchugh1/alveera/internal/config"
	"github.com/pranavchugh1/alveera/internal/domain"
	"github.com/pranavchugh1/alveera/pkg/logger"
)

const usage = `usage: alveera <command> [arguments]

Catalog:
  products    list products (filters, search, pagination)
  product     show one product by id
  categories  list storefront categories

Cart:
  cart        show the cart
  add         add a product to the cart
  update      change a cart line quantity (0 removes)
  remove      remove a cart line
  clear       empty the cart

Account:
  login       customer login
  signup      customer signup
  logout      customer logout
  whoami      show the signed-in customer
  orders      list my orders
  order       show one order by id
  checkout    place an order from the cart

Back office:
  admin       admin subcommands (login, logout, products, product-*, orders, status, stats)
`

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		return fmt.Errorf("no command given")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New("alveera", cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}
	defer func() {
		if err := application.Shutdown(context.Background()); err != nil {
			log.Error("shutdown", slog.String("error", err.Error()))
		}
	}()

	cmd, args := flag.Arg(0), flag.Args()[1:]
	switch cmd {
	case "products":
		return cmdProducts(ctx, application, args)
	case "product":
		return cmdProduct(ctx, application, args)
	case "categories":
		return cmdCategories(ctx, application)
	case "cart":
		return cmdCartShow(application)
	case "add":
		return cmdCartAdd(ctx, application, args)
	case "update":
		return cmdCartUpdate(ctx, application, args)
	case "remove":
		return cmdCartRemove(ctx, application, args)
	case "clear":
		application.Cart.Clear(ctx)
		return nil
	case "login":
		return cmdLogin(ctx, application, args)
	case "signup":
		return cmdSignup(ctx, application, args)
	case "logout":
		application.Customer.Logout(ctx)
		return nil
	case "whoami":
		return cmdWhoami(application)
	case "orders":
		return cmdOrders(ctx, application)
	case "order":
		return cmdOrder(ctx, application, args)
	case "checkout":
		return cmdCheckout(ctx, application, args)
	case "admin":
		return cmdAdmin(ctx, application, args)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func cmdProducts(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("products", flag.ExitOnError)
	category := fs.String("category", "", "filter by category id")
	material := fs.String("material", "", "filter by material")
	color := fs.String("color", "", "filter by color")
	minPrice := fs.String("min-price", "", "minimum price")
	maxPrice := fs.String("max-price", "", "maximum price")
	search := fs.String("search", "", "free-text search")
	pages := fs.Int("pages", 1, "number of pages to accumulate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	for key, value := range map[string]string{
		catalog.FilterCategory: *category,
		catalog.FilterMaterial: *material,
		catalog.FilterColor:    *color,
		catalog.FilterMinPrice: *minPrice,
		catalog.FilterMaxPrice: *maxPrice,
	} {
		if value != "" {
			a.Catalog.SetFilter(ctx, key, value)
		}
	}
	if *search != "" {
		a.Catalog.SearchNow(ctx, *search)
	} else {
		a.Catalog.Refresh(ctx)
	}

	for page := 1; page < *pages; page++ {
		a.Catalog.LoadMore(ctx)
	}

	rs := a.Catalog.Results()
	fmt.Printf("%d of %d products (%d pages)\n", len(rs.Items), rs.TotalCount, rs.TotalPages)
	return printJSON(rs.Items)
}

func cmdProduct(ctx context.Context, a *app.App, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: alveera product <id>")
	}
	product, err := a.Catalog.GetProduct(ctx, args[0])
	if err != nil {
		return err
	}
	return printJSON(product)
}

func cmdCategories(ctx context.Context, a *app.App) error {
	categories, err := a.Catalog.Categories(ctx)
	if err != nil {
		return err
	}
	return printJSON(categories)
}

func cmdCartShow(a *app.App) error {
	lines := a.Cart.Lines()
	if len(lines) == 0 {
		fmt.Println("cart is empty")
		return nil
	}
	for _, line := range lines {
		fmt.Printf("%-12s x%-3d %10.2f  %s\n",
			line.ProductID, line.Quantity, line.Product.Price, line.Product.Name)
	}
	fmt.Printf("%d items, total %.2f\n", a.Cart.ItemCount(), a.Cart.Total())
	return nil
}

func cmdCartAdd(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	qty := fs.Int("qty", 1, "quantity to add")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: alveera add [-qty n] <product-id>")
	}

	product, err := a.Catalog.GetProduct(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	if err := a.Cart.Add(ctx, *product, *qty); err != nil {
		return err
	}
	return cmdCartShow(a)
}

func cmdCartUpdate(ctx context.Context, a *app.App, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: alveera update <product-id> <quantity>")
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("quantity must be a number: %w", err)
	}
	a.Cart.UpdateQuantity(ctx, args[0], qty)
	return cmdCartShow(a)
}

func cmdCartRemove(ctx context.Context, a *app.App, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: alveera remove <product-id>")
	}
	a.Cart.Remove(ctx, args[0])
	return cmdCartShow(a)
}

func cmdLogin(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result := a.Customer.Login(ctx, *email, *password)
	if !result.OK {
		return fmt.Errorf("%s", result.Message)
	}
	fmt.Printf("logged in as %s\n", a.Customer.Principal().Email)
	return nil
}

func cmdSignup(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	name := fs.String("name", "", "full name")
	phone := fs.String("phone", "", "phone number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result := a.Customer.Signup(ctx, *email, *password, *name, *phone)
	if !result.OK {
		return fmt.Errorf("%s", result.Message)
	}
	fmt.Printf("welcome, %s\n", a.Customer.Principal().FullName)
	return nil
}

func cmdWhoami(a *app.App) error {
	if !a.Customer.IsAuthenticated() {
		fmt.Println("not logged in")
		return nil
	}
	return printJSON(a.Customer.Principal())
}

func cmdOrders(ctx context.Context, a *app.App) error {
	list, err := a.Orders.MyOrders(ctx)
	if err != nil {
		return err
	}
	return printJSON(list)
}

func cmdOrder(ctx context.Context, a *app.App, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: alveera order <id>")
	}
	order, err := a.Orders.GetOrder(ctx, args[0])
	if err != nil {
		return err
	}
	return printJSON(order)
}

func cmdCheckout(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ExitOnError)
	defaults := a.Checkout.DefaultContactInfo()
	name := fs.String("name", defaults.Name, "contact name")
	email := fs.String("email", defaults.Email, "contact email")
	phone := fs.String("phone", defaults.Phone, "contact phone")
	payment := fs.String("payment", domain.PaymentMethodCOD, "payment method (stripe, razorpay, cod)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	order, err := a.Checkout.PlaceOrder(ctx, checkout.ContactInfo{
		Name:  *name,
		Email: *email,
		Phone: *phone,
	}, *payment)
	if err != nil {
		return err
	}
	fmt.Printf("order %s placed, total %.2f\n", order.ID, order.Total)
	return printJSON(order)
}

func cmdAdmin(ctx context.Context, a *app.App, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: alveera admin <login|logout|products|product-add|product-update|product-delete|orders|status|stats>")
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "login":
		fs := flag.NewFlagSet("admin login", flag.ExitOnError)
		email := fs.String("email", "", "admin email")
		password := fs.String("password", "", "admin password")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		result := a.Admin.Login(ctx, *email, *password)
		if !result.OK {
			return fmt.Errorf("%s", result.Message)
		}
		fmt.Println("admin logged in")
		return nil

	case "logout":
		a.Admin.Logout(ctx)
		return nil

	case "products":
		fs := flag.NewFlagSet("admin products", flag.ExitOnError)
		search := fs.String("search", "", "match against name or design number")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		list, err := a.AdminClient.ListProducts(ctx, admin.ProductFilter{Search: *search})
		if err != nil {
			return err
		}
		return printJSON(list)

	case "product-add", "product-update":
		fs := flag.NewFlagSet("admin "+cmd, flag.ExitOnError)
		input := productInputFlags(fs)
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if cmd == "product-add" {
			product, err := a.AdminClient.CreateProduct(ctx, *input)
			if err != nil {
				return err
			}
			return printJSON(product)
		}
		if fs.NArg() != 1 {
			return fmt.Errorf("usage: alveera admin product-update [flags] <product-id>")
		}
		product, err := a.AdminClient.UpdateProduct(ctx, fs.Arg(0), *input)
		if err != nil {
			return err
		}
		return printJSON(product)

	case "product-delete":
		if len(rest) != 1 {
			return fmt.Errorf("usage: alveera admin product-delete <product-id>")
		}
		return a.AdminClient.DeleteProduct(ctx, rest[0])

	case "orders":
		fs := flag.NewFlagSet("admin orders", flag.ExitOnError)
		status := fs.String("status", "", "filter by order status")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		list, err := a.AdminClient.ListOrders(ctx, *status)
		if err != nil {
			return err
		}
		return printJSON(list)

	case "status":
		if len(rest) != 2 {
			return fmt.Errorf("usage: alveera admin status <order-id> <status>")
		}
		order, err := a.AdminClient.UpdateStatus(ctx, rest[0], rest[1])
		if err != nil {
			return err
		}
		return printJSON(order)

	case "stats":
		stats, err := a.AdminClient.Stats(ctx)
		if err != nil {
			return err
		}
		return printJSON(stats)

	default:
		return fmt.Errorf("unknown admin command %q", cmd)
	}
}

func productInputFlags(fs *flag.FlagSet) *domain.ProductInput {
	input := &domain.ProductInput{}
	fs.StringVar(&input.DesignNo, "design-no", "", "design number")
	fs.StringVar(&input.Name, "name", "", "product name")
	fs.StringVar(&input.Description, "description", "", "product description")
	fs.Float64Var(&input.Price, "price", 0, "price")
	fs.StringVar(&input.Material, "material", "", "material")
	fs.StringVar(&input.Color, "color", "", "color")
	fs.StringVar(&input.ImageURL, "image-url", "", "image URL")
	fs.StringVar(&input.Category, "category", "", "category id")
	return input
}
