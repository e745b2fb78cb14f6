package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dkroy/storefront-golang/internal/models"
	"github.com/dkroy/storefront-golang/internal/store"
)

const pageSize = 5

// CLI drives the interactive storefront. It is presentation glue only: all
// business rules live in the store package, and input errors are handled
// here by reprompting.
type CLI struct {
	Store *store.Store

	in     *bufio.Scanner
	out    io.Writer
	logger *slog.Logger
}

func New(st *store.Store, in io.Reader, out io.Writer) *CLI {
	return &CLI{
		Store:  st,
		in:     bufio.NewScanner(in),
		out:    out,
		logger: slog.Default(),
	}
}

// Run loops on the main menu until the user exits or input ends.
func (c *CLI) Run(ctx context.Context) error {
	for {
		fmt.Fprintln(c.out, "\n=== Welcome to the Store CLI ===")
		fmt.Fprintln(c.out, "1) Login")
		fmt.Fprintln(c.out, "2) Sign up")
		fmt.Fprintln(c.out, "0) Exit")

		choice, ok := c.prompt("Choose: ")
		if !ok {
			return nil
		}
		switch choice {
		case "1":
			c.loginFlow(ctx)
		case "2":
			c.signupFlow(ctx)
		case "0":
			fmt.Fprintln(c.out, "Goodbye.")
			return nil
		default:
			fmt.Fprintln(c.out, "Invalid choice.")
		}
	}
}

func (c *CLI) loginFlow(ctx context.Context) {
	login, ok := c.prompt("User ID or email address: ")
	if !ok {
		return
	}
	password, ok := c.prompt("Password: ")
	if !ok {
		return
	}

	user, err := c.Store.Authenticate(ctx, login, password)
	if errors.Is(err, store.ErrInvalidCredentials) {
		fmt.Fprintln(c.out, "Invalid login credentials. Please try again.")
		return
	}
	if err != nil {
		fmt.Fprintf(c.out, "Login failed: %v\n", err)
		return
	}

	switch user.Role {
	case models.RoleCustomer:
		c.customerSession(ctx, user.ID)
	case models.RoleSales:
		c.salesMenu(ctx)
	}
}

func (c *CLI) signupFlow(ctx context.Context) {
	name, ok := c.prompt("Name: ")
	if !ok {
		return
	}

	var email string
	for {
		email, ok = c.prompt("Email address: ")
		if !ok {
			return
		}
		if strings.Contains(email, "@") && strings.Contains(email, ".") {
			break
		}
		fmt.Fprintln(c.out, "Invalid email format. Please enter a valid email address.")
	}

	password, ok := c.prompt("Password: ")
	if !ok {
		return
	}

	uid, err := c.Store.Signup(ctx, name, email, password)
	if err != nil {
		fmt.Fprintf(c.out, "Registration failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "Registered. Your User ID is %d.\n", uid)
	c.customerSession(ctx, uid)
}

// customerSession brackets the customer menu in a session: open on entry,
// close on every exit path.
func (c *CLI) customerSession(ctx context.Context, customerID int64) {
	sessionNo, err := c.Store.OpenSession(ctx, customerID)
	if err != nil {
		fmt.Fprintf(c.out, "Could not start session: %v\n", err)
		return
	}
	defer func() {
		if err := c.Store.CloseSession(ctx, customerID, sessionNo); err != nil {
			c.logger.Warn("failed to close session",
				"customer", customerID, "session", sessionNo, "error", err)
		}
	}()

	c.customerMenu(ctx, customerID, sessionNo)
}

func (c *CLI) customerMenu(ctx context.Context, customerID int64, sessionNo int) {
	for {
		fmt.Fprintf(c.out, "\n=== Customer Menu (CID %d, Session %d) ===\n", customerID, sessionNo)
		fmt.Fprintln(c.out, "1) Search products")
		fmt.Fprintln(c.out, "2) View cart")
		fmt.Fprintln(c.out, "3) My orders")
		fmt.Fprintln(c.out, "0) Logout")

		choice, ok := c.prompt("Choose: ")
		if !ok {
			return
		}
		switch choice {
		case "1":
			c.searchFlow(ctx, customerID, sessionNo)
		case "2":
			c.cartFlow(ctx, customerID, sessionNo)
		case "3":
			c.ordersFlow(ctx, customerID)
		case "0":
			fmt.Fprintln(c.out, "Logging out...")
			return
		default:
			fmt.Fprintln(c.out, "Invalid choice.")
		}
	}
}

func (c *CLI) searchFlow(ctx context.Context, customerID int64, sessionNo int) {
	raw, ok := c.prompt("==> Keywords (space-separated): ")
	if !ok || raw == "" {
		fmt.Fprintln(c.out, "Empty keyword.")
		return
	}

	if err := c.Store.RecordSearch(ctx, customerID, sessionNo, raw); err != nil {
		c.logger.Warn("failed to record search", "error", err)
	}

	products, err := c.Store.SearchProducts(ctx, strings.Fields(raw))
	if err != nil {
		fmt.Fprintf(c.out, "Search failed: %v\n", err)
		return
	}
	if len(products) == 0 {
		fmt.Fprintln(c.out, "No products found.")
		return
	}

	page := 0
	for {
		start := page * pageSize
		if start >= len(products) {
			fmt.Fprintln(c.out, "No more results.")
			return
		}
		end := min(start+pageSize, len(products))
		pageItems := products[start:end]

		fmt.Fprintf(c.out, "\n-- Results Page %d --\n", page+1)
		fmt.Fprintf(c.out, "\n%-3s %-6s %-20s %-10s %-10s %-8s\n",
			"#", "PID", "Name", "Category", "Price", "Stock")
		fmt.Fprintln(c.out, strings.Repeat("-", 60))
		for i, p := range pageItems {
			fmt.Fprintf(c.out, "%-3s %-6d %-20s %-10s $%-9.2f %-8d\n",
				fmt.Sprintf("%d)", start+i+1), p.ID, truncate(p.Name, 20),
				truncate(p.Category, 10), p.Price, p.StockCount)
		}

		fmt.Fprintln(c.out, "\nn) Next page\np) Prev page\nb) Back")
		fmt.Fprintln(c.out, "or enter the index of the product you want to add/view:")
		selection, ok := c.prompt("Choose: ")
		if !ok {
			return
		}
		switch selection {
		case "n":
			page++
		case "p":
			page = max(0, page-1)
		case "b":
			return
		default:
			index, err := strconv.Atoi(selection)
			if err != nil {
				fmt.Fprintln(c.out, "Invalid input.")
				continue
			}
			if index < start+1 || index > end {
				fmt.Fprintln(c.out, "Invalid selection.")
				continue
			}
			c.productDetail(ctx, customerID, sessionNo, products[index-1].ID)
		}
	}
}

func (c *CLI) productDetail(ctx context.Context, customerID int64, sessionNo int, productID int64) {
	p, err := c.Store.GetProduct(ctx, productID)
	if errors.Is(err, store.ErrNotFound) {
		fmt.Fprintln(c.out, "Product not found.")
		return
	}
	if err != nil {
		fmt.Fprintf(c.out, "Lookup failed: %v\n", err)
		return
	}

	if err := c.Store.RecordView(ctx, customerID, sessionNo, productID); err != nil {
		c.logger.Warn("failed to record product view", "error", err)
	}

	fmt.Fprintf(c.out, "\nPID %d\nName: %s\nCategory: %s\nPrice: $%.2f\nStock: %d\nDesc: %s\n",
		p.ID, p.Name, p.Category, p.Price, p.StockCount, p.Description)

	if p.StockCount == 0 {
		fmt.Fprintln(c.out, "Out of stock.")
		return
	}
	ans, ok := c.prompt("Add to cart (qty 1)? [y/N]: ")
	if !ok || !strings.EqualFold(ans, "y") {
		return
	}
	if err := c.Store.AddItem(ctx, customerID, sessionNo, productID, 1); err != nil {
		fmt.Fprintf(c.out, "Could not add to cart: %v\n", err)
		return
	}
	fmt.Fprintln(c.out, "Product added to cart.")
}

func (c *CLI) cartFlow(ctx context.Context, customerID int64, sessionNo int) {
	for {
		items, err := c.Store.ListItems(ctx, customerID, sessionNo)
		if err != nil {
			fmt.Fprintf(c.out, "Could not load cart: %v\n", err)
			return
		}
		if len(items) == 0 {
			fmt.Fprintln(c.out, "\nThe cart is empty.")
			return
		}

		fmt.Fprintln(c.out, "\nThe cart contains the following items:")
		fmt.Fprintf(c.out, "\n%-3s %-6s %-20s %-10s %-10s %-10s %-50s\n",
			"#", "PID", "Name", "Category", "Price", "Stock", "Descr")
		fmt.Fprintln(c.out, strings.Repeat("-", 80))
		for i, it := range items {
			fmt.Fprintf(c.out, "%-3s %-6d %-20s %-10s $%-9.2f %-10d %-50s\n",
				fmt.Sprintf("%d)", i+1), it.ProductID, truncate(it.Name, 20),
				truncate(it.Category, 10), it.Price, it.StockCount, truncate(it.Description, 50))
		}

		fmt.Fprintln(c.out, "\nu) Update qty\nr) Remove item\nc) Checkout\nb) Back")
		selection, ok := c.prompt("Choose: ")
		if !ok {
			return
		}
		switch selection {
		case "u":
			index, ok := c.promptIndex(len(items))
			if !ok {
				continue
			}
			qtyStr, ok := c.prompt("New quantity: ")
			if !ok {
				continue
			}
			qty, err := strconv.Atoi(qtyStr)
			if err != nil || qty <= 0 {
				fmt.Fprintln(c.out, "Quantity must be a positive integer.")
				continue
			}
			err = c.Store.UpdateItem(ctx, customerID, sessionNo, items[index-1].ProductID, qty)
			if err != nil {
				fmt.Fprintf(c.out, "Could not update quantity: %v\n", err)
			}
		case "r":
			index, ok := c.promptIndex(len(items))
			if !ok {
				continue
			}
			err := c.Store.RemoveItem(ctx, customerID, sessionNo, items[index-1].ProductID)
			if err != nil {
				fmt.Fprintf(c.out, "Could not remove item: %v\n", err)
			}
		case "c":
			c.checkout(ctx, customerID, sessionNo)
		case "b":
			return
		default:
			fmt.Fprintln(c.out, "Invalid choice.")
		}
	}
}

func (c *CLI) checkout(ctx context.Context, customerID int64, sessionNo int) {
	address, ok := c.prompt("Shipping address: ")
	if !ok {
		return
	}
	if address == "" {
		fmt.Fprintln(c.out, "Address required.")
		return
	}
	confirm, ok := c.prompt("Place order? [y/N]: ")
	if !ok || !strings.EqualFold(confirm, "y") {
		return
	}

	orderNo, total, err := c.Store.PlaceOrder(ctx, customerID, sessionNo, address)
	if err != nil {
		fmt.Fprintf(c.out, "Checkout failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "Order %d placed. Total $%.2f\n", orderNo, total)
}

func (c *CLI) ordersFlow(ctx context.Context, customerID int64) {
	orders, err := c.Store.ListOrders(ctx, customerID)
	if err != nil {
		fmt.Fprintf(c.out, "Could not load orders: %v\n", err)
		return
	}
	if len(orders) == 0 {
		fmt.Fprintln(c.out, "No orders.")
		return
	}

	page := 0
	for {
		start := page * pageSize
		if start >= len(orders) {
			fmt.Fprintln(c.out, "No more.")
			return
		}
		end := min(start+pageSize, len(orders))
		pageItems := orders[start:end]

		fmt.Fprintf(c.out, "\n== Orders Page %d ==\n", page+1)
		fmt.Fprintf(c.out, "\n%-3s %-6s %-12s %-30s %-10s\n", "#", "ONO", "Date", "Address", "Total")
		fmt.Fprintln(c.out, strings.Repeat("-", 70))
		for i, o := range pageItems {
			fmt.Fprintf(c.out, "%-3s %-6d %-12s %-30s $%-9.2f\n",
				fmt.Sprintf("%d)", i+1), o.Number, o.OrderDate.Format("2006-01-02"),
				truncate(o.ShippingAddress, 30), o.Total)
		}

		fmt.Fprintln(c.out, "n) Next\np) Prev\nb) Back")
		fmt.Fprintln(c.out, "or enter the index of the order to view details:")
		selection, ok := c.prompt("Choose: ")
		if !ok {
			return
		}
		switch selection {
		case "n":
			page++
		case "p":
			page = max(0, page-1)
		case "b":
			return
		default:
			index, err := strconv.Atoi(selection)
			if err != nil || index < 1 || index > len(pageItems) {
				fmt.Fprintln(c.out, "Invalid selection.")
				continue
			}
			c.orderDetail(ctx, pageItems[index-1].Number)
		}
	}
}

func (c *CLI) orderDetail(ctx context.Context, orderNo int64) {
	detail, err := c.Store.GetOrder(ctx, orderNo)
	if errors.Is(err, store.ErrNotFound) {
		fmt.Fprintln(c.out, "Order not found.")
		return
	}
	if err != nil {
		fmt.Fprintf(c.out, "Could not load order: %v\n", err)
		return
	}

	fmt.Fprintf(c.out, "\nOrder %d | %s | %s\n",
		detail.Number, detail.OrderDate.Format("2006-01-02"), detail.ShippingAddress)
	fmt.Fprintf(c.out, "\n%-3s %-20s %-12s %5s %8s %10s\n", "#", "Name", "Category", "Qty", "Unit", "Line")
	fmt.Fprintln(c.out, strings.Repeat("-", 65))
	for i, ln := range detail.Lines {
		fmt.Fprintf(c.out, "%-3s %-20s %-12s %5d $%7.2f $%9.2f\n",
			fmt.Sprintf("%d)", i+1), truncate(ln.Name, 20), truncate(ln.Category, 12),
			ln.Quantity, ln.UnitPrice, ln.LineTotal)
	}
	fmt.Fprintf(c.out, "\nGrand total: $%.2f\n", detail.Total)
}

// prompt prints a label and reads one trimmed line. The second return is
// false once input is exhausted.
func (c *CLI) prompt(label string) (string, bool) {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

// promptIndex reads a 1-based item number and bounds-checks it.
func (c *CLI) promptIndex(n int) (int, bool) {
	s, ok := c.prompt("Item number: ")
	if !ok {
		return 0, false
	}
	index, err := strconv.Atoi(s)
	if err != nil {
		fmt.Fprintln(c.out, "Invalid number.")
		return 0, false
	}
	if index < 1 || index > n {
		fmt.Fprintln(c.out, "Out of range.")
		return 0, false
	}
	return index, true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
