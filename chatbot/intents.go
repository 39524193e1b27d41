package chatbot

import (
	"fmt"
	"strings"

	"pizzabot-api/models"

	"go.uber.org/zap"
)

const msgSelectBranchFirst = "Please select a branch first with 'select branch <branch_name>' or type 'show menu' to use the nearest branch."

func (b *Bot) greet(tc *turnContext, msg string) {
	tc.say("👋 Hey there! Welcome back to PizzaBot. 🍕 Please select a branch with 'select branch <branch_name>' or type 'show menu' to view the nearest branch's menu.")
}

func (b *Bot) showMenuIntent(tc *turnContext, msg string) {
	if tc.s.State().SelectedBranch == "" {
		tc.say("Fetching nearest branch and its menu...")
		b.nearestBranchMenu(tc)
		return
	}
	b.showMenu(tc)
}

// nearestBranchMenu resolves the closest branch from the device
// location, selects it, and shows its menu.
func (b *Bot) nearestBranchMenu(tc *turnContext) {
	provider := tc.s.locationProvider()
	if provider == nil {
		tc.say("Location permission is required to find the nearest branch. Please enable it in settings.")
		return
	}
	tc.say("Fetching your location to find the nearest branch...")
	loc, err := provider.Current(tc.ctx)
	if err != nil {
		tc.sayf("Error getting location: %v. Please select a branch manually.", err)
		return
	}
	code, err := b.resolver.NearestBranch(tc.ctx, loc)
	if err != nil {
		tc.sayf("Error fetching branches: %v", err)
		return
	}
	if code == "" {
		tc.say("No branches found. Please select a branch manually with 'select branch <branch_name>'.")
		return
	}
	tc.s.setBranch(code)
	tc.sayf("Nearest branch: %s. Showing menu...", BranchDisplayName(code))
	b.showMenu(tc)
}

// showMenu lists the selected branch's catalog, one message per item
func (b *Bot) showMenu(tc *turnContext) {
	branch := tc.s.State().SelectedBranch
	items, total, err := b.resolver.FetchMenu(tc.ctx, branch, "")
	if err != nil {
		tc.sayf("Error fetching menu for %s: %v", branch, err)
		return
	}
	if total == 0 {
		tc.say("No menu items found in the database.")
		return
	}
	if len(items) == 0 {
		tc.sayf("No menu items available for %s.", branch)
		return
	}
	for _, item := range items {
		tc.say(FormatMenuLine(item))
	}
}

func (b *Bot) selectBranch(tc *turnContext, msg string) {
	input := strings.TrimSpace(strings.TrimPrefix(msg, "select branch"))
	code, ok := b.resolver.SelectBranchByName(input)
	b.log.Debug("branch selection", zap.String("input", input), zap.String("code", code))
	if !ok {
		tc.sayf("Invalid branch. Available branches: %s", strings.Join(BranchDisplayNames(), ", "))
		return
	}
	tc.s.setBranch(code)
	tc.sayf("Branch selected: %s. Now showing menu...", BranchDisplayName(code))
	b.showMenu(tc)
}

func (b *Bot) filterCategory(tc *turnContext, msg string) {
	category := models.CategoryNonVegetarian
	if strings.Contains(msg, "vegetarian") {
		category = models.CategoryVegetarian
	}
	branch := tc.s.State().SelectedBranch
	if branch == "" {
		tc.say(msgSelectBranchFirst)
		return
	}
	items, total, err := b.resolver.FetchMenu(tc.ctx, branch, category)
	if err != nil {
		tc.sayf("Error fetching %s items: %v", category, err)
		return
	}
	if total == 0 {
		tc.sayf("No %s items found for %s.", category, branch)
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Showing %s items:\n", category)
	for _, item := range items {
		fmt.Fprintf(&sb, "%s - LKR %.2f\n", item.Name, item.Price)
	}
	tc.say(sb.String())
}

func (b *Bot) addTopping(tc *turnContext, msg string) {
	state := tc.s.State()
	if state.SelectedItem == "" {
		tc.say("Please select a menu item first.")
		return
	}
	topping := strings.TrimSpace(after(msg, "add"))
	tc.sayf("Added %s to %s!", topping, state.SelectedItem)
}

func (b *Bot) addToCart(tc *turnContext, msg string) {
	state := tc.s.State()
	if state.UserID == "" {
		tc.say("Please log in to add to cart.")
		return
	}
	if state.SelectedItem == "" {
		tc.say("Please select a menu item first.")
		return
	}
	if state.SelectedBranch == "" {
		tc.say(msgSelectBranchFirst)
		return
	}

	snap, err := b.store.QueryByField(tc.ctx, "menu", "name", state.SelectedItem)
	if err != nil {
		tc.sayf("Error adding to cart: %v", err)
		return
	}
	children := snap.Children()
	if len(children) == 0 {
		tc.sayf("Error: %s not found in menu.", state.SelectedItem)
		return
	}
	var item models.MenuItem
	if err := children[0].Decode(&item); err != nil {
		tc.sayf("Error adding to cart: %v", err)
		return
	}

	cart, err := b.cart.AddToCart(tc.ctx, state.UserID, state.SelectedBranch, item)
	if err != nil {
		tc.sayf("Error adding to cart: %v", err)
		return
	}
	tc.sayf("%s added to cart! Say 'show cart' or 'pay'.", item.Name)
	tc.s.notifyCartChanged()
	b.log.Info("cart updated",
		zap.String("user", state.UserID),
		zap.Int("totalItems", cart.TotalItems),
		zap.Float64("totalPrice", cart.TotalPrice))
}

func (b *Bot) viewCart(tc *turnContext, msg string) {
	state := tc.s.State()
	if state.UserID == "" {
		tc.say("Please log in to view cart.")
		return
	}
	summary, err := b.cart.ViewCart(tc.ctx, state.UserID)
	if err != nil {
		tc.sayf("Error fetching cart: %v", err)
		return
	}
	tc.say(summary)
}

func (b *Bot) pay(tc *turnContext, msg string) {
	state := tc.s.State()
	if state.UserID == "" {
		tc.say("Please log in to pay.")
		return
	}
	if state.SelectedItem == "" {
		tc.say("Please add items to cart first.")
		return
	}
	switch {
	case strings.Contains(msg, "card online"):
		tc.say("Redirecting to online card payment... [Stripe integration required]")
	case strings.Contains(msg, "card on delivery"):
		b.placeOrder(tc, state, models.PaymentCardOnDelivery,
			"Order placed with card on delivery. You'll provide card details to the delivery agent.")
	case strings.Contains(msg, "cash"), strings.Contains(msg, "cod"):
		b.placeOrder(tc, state, models.PaymentCashOnDelivery, "Order placed with cash on delivery.")
	default:
		tc.say("Please specify payment method: 'pay card online', 'pay card on delivery', or 'pay cash'.")
	}
}

func (b *Bot) placeOrder(tc *turnContext, state SessionState, method models.PaymentMethod, confirmation string) {
	order := models.Order{
		UserID:   state.UserID,
		ItemName: state.SelectedItem,
		Payment:  method,
		Status:   models.StatusPending,
	}
	key, err := b.store.Push(tc.ctx, "orders/"+state.UserID, order)
	if err != nil {
		tc.sayf("Error placing order: %v", err)
		return
	}
	b.log.Info("order placed",
		zap.String("user", state.UserID),
		zap.String("order", key),
		zap.String("payment", string(method)))
	tc.say(confirmation)
}

func (b *Bot) trackOrder(tc *turnContext, msg string) {
	b.listOrders(tc, "Please log in to track orders.",
		"Order Status:\n", "No orders found.", "Error tracking order: %v")
}

func (b *Bot) orderHistory(tc *turnContext, msg string) {
	b.listOrders(tc, "Please log in to view order history.",
		"Order History:\n", "No past orders.", "Error fetching order history: %v")
}

func (b *Bot) listOrders(tc *turnContext, loginMsg, header, emptyMsg, errFormat string) {
	state := tc.s.State()
	if state.UserID == "" {
		tc.say(loginMsg)
		return
	}
	snap, err := b.store.Get(tc.ctx, "orders/"+state.UserID)
	if err != nil {
		tc.sayf(errFormat, err)
		return
	}
	if !snap.Exists() {
		tc.say(emptyMsg)
		return
	}
	var sb strings.Builder
	sb.WriteString(header)
	for _, child := range snap.Children() {
		var order models.Order
		if err := child.Decode(&order); err != nil {
			continue
		}
		fmt.Fprintf(&sb, "Order #%s: %s (%s)\n", child.Key, order.ItemName, order.Status)
	}
	tc.say(sb.String())
}

func (b *Bot) applyPromo(tc *turnContext, msg string) {
	code := strings.TrimSpace(after(msg, "promo"))
	if code == "" {
		tc.say("Please provide a promo code (e.g., 'promo SAVE10').")
		return
	}
	tc.sayf("Applied promo code: %s (10%% off)!", code)
}

func (b *Bot) updateProfile(tc *turnContext, msg string) {
	state := tc.s.State()
	if state.UserID == "" {
		tc.say("Please log in to update profile.")
		return
	}
	switch {
	case strings.Contains(msg, "address"):
		address := strings.TrimSpace(after(msg, "address"))
		if err := b.store.Set(tc.ctx, "users/"+state.UserID+"/address", address); err != nil {
			tc.sayf("Error updating profile: %v", err)
			return
		}
		tc.sayf("Address updated to: %s", address)
	case strings.Contains(msg, "name"):
		name := strings.TrimSpace(after(msg, "name"))
		if err := b.store.Set(tc.ctx, "users/"+state.UserID+"/name", name); err != nil {
			tc.sayf("Error updating profile: %v", err)
			return
		}
		tc.sayf("Name updated to: %s", name)
	default:
		tc.say("Please specify what to update (e.g., 'update address to 123 Main St' or 'update name to John').")
	}
}

func (b *Bot) feedback(tc *turnContext, msg string) {
	tc.say("Thanks for your feedback! Please share your comments, and I'll save them.")
}

func (b *Bot) support(tc *turnContext, msg string) {
	tc.say("Contact support at: support@pizzamania.lk or call: +94752260132\n\n" +
		"Type : \n" +
		"'show menu' - To view the menu.\n" +
		"'add to cart' - To add items to the cart.\n" +
		"'show cart' - To view your cart.\n" +
		"'add toppings' - To add extra toppings.\n" +
		"'pay' - To pay for your order.\n" +
		"Feel free to reach us out for further more information.")
}

func (b *Bot) manageAccount(tc *turnContext, msg string) {
	switch {
	case strings.Contains(msg, "log out"):
		tc.s.clearUser()
		tc.say("Logged out successfully.")
	case strings.Contains(msg, "password"):
		tc.say("To update password, please use the main app's account settings.")
	default:
		tc.say("Account options: Say 'log out' or 'update password'.")
	}
}

// lookupItem is the fallback when no keyword matched: with a branch
// selected, the utterance is treated as a (partial) item name and the
// first catalog match becomes the selected item.
func (b *Bot) lookupItem(tc *turnContext, msg string) {
	state := tc.s.State()
	if state.SelectedBranch == "" {
		tc.say(msgSelectBranchFirst)
		return
	}
	snap, err := b.store.Get(tc.ctx, "menu")
	if err != nil {
		tc.sayf("Error fetching menu items: %v", err)
		return
	}
	for _, child := range snap.Children() {
		var item models.MenuItem
		if err := child.Decode(&item); err != nil {
			continue
		}
		if item.SoldAt(state.SelectedBranch) && strings.Contains(strings.ToLower(item.Name), msg) {
			tc.s.setItem(item.Name)
			tc.sayf("Selected %s. Add toppings (e.g., 'add extra cheese') or say 'add to cart'.", item.Name)
			return
		}
	}
	tc.say("I didn't understand. Try 'show menu', 'select branch <branch_name>', or 'help'.")
}

// after returns the part of s following the first occurrence of sep,
// or s unchanged when sep is absent.
func after(s, sep string) string {
	if i := strings.Index(s, sep); i >= 0 {
		return s[i+len(sep):]
	}
	return s
}
