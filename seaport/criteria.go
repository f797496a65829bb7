package seaport

// CheckCriteriaCounts fails unless every criteria item on each side has
// exactly one criteria supplied for it
func CheckCriteriaCounts(
	offer []Item,
	consideration []Item,
	offerCriteria []InputCriteria,
	considerationCriteria []InputCriteria,
) error {
	if n := CountCriteriaItems(offer); n != len(offerCriteria) {
		return &CriteriaCountError{Side: SideOffer, Items: n, Resolvers: len(offerCriteria)}
	}
	if n := CountCriteriaItems(consideration); n != len(considerationCriteria) {
		return &CriteriaCountError{Side: SideConsideration, Items: n, Resolvers: len(considerationCriteria)}
	}
	return nil
}

// GenerateCriteriaResolvers builds one resolver per criteria item of the
// order at orderIndex. Indexes refer to the item lists as submitted, so the
// consideration passed in must already include tips.
func GenerateCriteriaResolvers(
	orderIndex int,
	offer []Item,
	consideration []Item,
	offerCriteria []InputCriteria,
	considerationCriteria []InputCriteria,
) []CriteriaResolver {
	resolvers := make([]CriteriaResolver, 0, len(offerCriteria)+len(considerationCriteria))
	resolvers = appendResolvers(resolvers, orderIndex, SideOffer, offer, offerCriteria)
	resolvers = appendResolvers(resolvers, orderIndex, SideConsideration, consideration, considerationCriteria)
	return resolvers
}

func appendResolvers(
	resolvers []CriteriaResolver,
	orderIndex int,
	side Side,
	items []Item,
	criterias []InputCriteria,
) []CriteriaResolver {
	next := 0
	for index, item := range items {
		if !item.ItemType.IsCriteria() || next >= len(criterias) {
			continue
		}
		criteria := criterias[next]
		next++
		resolvers = append(resolvers, CriteriaResolver{
			OrderIndex:    orderIndex,
			Side:          side,
			Index:         index,
			Identifier:    criteria.Identifier,
			CriteriaProof: criteria.Proof,
		})
	}
	return resolvers
}
